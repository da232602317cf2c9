// Command geotool runs the field geology conversions from the shell.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/jengzang/geofield-backend-go/internal/compass"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

type Options struct {
	Datum string `short:"d" long:"datum" env:"GEOTOOL_DATUM" description:"Projection datum" choice:"legacy" choice:"wgs84" default:"legacy"`
}

var opts Options

func transformer() (*projection.Transformer, error) {
	d, err := projection.DatumByName(opts.Datum)
	if err != nil {
		return nil, err
	}
	return projection.NewTransformer(d), nil
}

type ProjectCommand struct {
	Lat float64 `long:"lat" description:"Latitude in degrees" required:"true"`
	Lon float64 `long:"lon" description:"Longitude in degrees" required:"true"`
}

func (c *ProjectCommand) Execute([]string) error {
	t, err := transformer()
	if err != nil {
		return err
	}
	p, err := t.ToProjected(c.Lon, c.Lat)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "zone %d E %.3f N %.3f\n", p.Zone, p.Easting, p.Northing)
	return nil
}

type UnprojectCommand struct {
	Easting  float64 `short:"e" long:"easting" description:"Easting in meters" required:"true"`
	Northing float64 `short:"n" long:"northing" description:"Northing in meters" required:"true"`
	Zone     int     `short:"z" long:"zone" description:"UTM zone 1..60" required:"true"`
}

func (c *UnprojectCommand) Execute([]string) error {
	t, err := transformer()
	if err != nil {
		return err
	}
	lon, lat, err := t.ToGeographic(c.Easting, c.Northing, c.Zone)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "lat %.7f lon %.7f\n", lat, lon)
	return nil
}

type TagsCommand struct{}

// Execute tags the arguments, or stdin when there are none
func (c *TagsCommand) Execute(args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	fmt.Fprintln(stdout, strings.Join(tagging.ExtractTags(text).Strings(), " "))
	return nil
}

type StrikeCommand struct {
	Parse  bool `short:"p" long:"parse" description:"Read quadrant notation and print headings"`
	Smooth int  `short:"s" long:"smooth" description:"Average headings over a window of this many readings"`
	Args   struct {
		Values []string `positional-arg-name:"value" required:"1"`
	} `positional-args:"yes"`
}

func (c *StrikeCommand) Execute([]string) error {
	var smoother *compass.HeadingSmoother
	if c.Smooth > 0 {
		smoother = compass.NewHeadingSmoother(c.Smooth)
	}
	for _, v := range c.Args.Values {
		if c.Parse {
			h, err := compass.ParseStrike(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\t%g\n", v, h)
			continue
		}
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid heading %q", v)
		}
		if smoother != nil {
			h = smoother.Add(h)
		}
		fmt.Fprintf(stdout, "%g\t%s\n", h, compass.FormatStrike(h))
	}
	return nil
}

type RingInput struct {
	Input string `short:"i" long:"in" description:"JSON vertex file. Reads from stdin if empty"`
}

func (r RingInput) read() ([]spatial.Point, error) {
	var (
		data []byte
		err  error
	)
	if r.Input != "" {
		data, err = os.ReadFile(r.Input)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ring: %w", err)
	}
	return spatial.NormalizeRingJSON(data)
}

type AreaCommand struct {
	RingInput
}

func (c *AreaCommand) Execute([]string) error {
	ring, err := c.read()
	if err != nil {
		return err
	}
	t, err := transformer()
	if err != nil {
		return err
	}
	area := spatial.PolygonAreaWith(t, ring)
	fmt.Fprintf(stdout, "vertices  %d\n", len(ring))
	fmt.Fprintf(stdout, "area      %s m² (%s ha)\n",
		humanize.CommafWithDigits(area, 1), humanize.CommafWithDigits(area/10000, 3))
	fmt.Fprintf(stdout, "perimeter %s m\n", humanize.CommafWithDigits(spatial.PerimeterLength(ring), 1))
	return nil
}

type GridCommand struct {
	RingInput
	Spacing  float64 `short:"s" long:"spacing" description:"Line spacing in meters" required:"true"`
	Color    string  `long:"color" description:"Line color" default:"#000000"`
	MaxLines int     `long:"max-lines" description:"Candidate line budget" default:"2000"`
	Format   string  `short:"f" long:"format" description:"Output format" choice:"summary" choice:"json" choice:"yaml" default:"summary"`
}

func (c *GridCommand) Execute([]string) error {
	ring, err := c.read()
	if err != nil {
		return err
	}
	g, err := grid.Generate(ring, c.Spacing, c.Color, grid.Options{MaxLines: c.MaxLines})
	if err != nil {
		return err
	}

	switch c.Format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	case "yaml":
		data, err := yaml.Marshal(g)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	meridians, parallels := g.SegmentCount()
	var points int
	for _, l := range g.Lines {
		points += len(l.Points)
	}
	fmt.Fprintf(stdout, "spacing   %s m (%.6f° lat, %.6f° lon)\n", humanize.Commaf(g.Spacing), g.DLat, g.DLon)
	fmt.Fprintf(stdout, "segments  %s meridian, %s parallel\n",
		humanize.Comma(int64(meridians)), humanize.Comma(int64(parallels)))
	fmt.Fprintf(stdout, "points    %s\n", humanize.Comma(int64(points)))
	return nil
}

func newParser() *flags.Parser {
	parser := flags.NewParser(&opts, flags.Default)
	parser.AddCommand("project", "Project lat/lon to UTM", "Projects a WGS84 position to zone, easting and northing.", &ProjectCommand{})
	parser.AddCommand("unproject", "Convert UTM to lat/lon", "Converts zone, easting and northing back to WGS84.", &UnprojectCommand{})
	parser.AddCommand("tags", "Extract element tags", "Prints the element tags named in the text.", &TagsCommand{})
	parser.AddCommand("strike", "Format strike headings", "Formats headings in quadrant notation, or parses it with --parse.", &StrikeCommand{})
	parser.AddCommand("area", "Measure a polygon", "Prints area and perimeter of a JSON vertex ring.", &AreaCommand{})
	parser.AddCommand("grid", "Generate a survey grid", "Generates grid lines clipped to a JSON boundary ring.", &GridCommand{})
	return parser
}

func main() {
	if _, err := newParser().Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
