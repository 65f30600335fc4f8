package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/example/photomark/internal/palette"
)

// colorsCmd lists the palette presets.
type colorsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *colorsCmd) Program() string { return c.root.subcommand("colors") }

func (c *colorsCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	c := &colorsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *colorsCmd) Run() error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for i, e := range c.config.NewPalette().Entries() {
		key := "-"
		if i < 9 {
			key = fmt.Sprint(i + 1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", key, e.Name, palette.Hex(e.Color))
	}
	return tw.Flush()
}
