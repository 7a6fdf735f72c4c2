// Command schemalog-demo exercises the public surface of schemalog end to
// end: it opens a file sink, declares a couple of channels (one via
// explicit schema, one via reflective derivation), writes a few values,
// and closes the writer. It is the spiritual successor of the teacher
// repo's examples/server/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	schemalog "github.com/benjamin-larsen/schemalog"
	"github.com/benjamin-larsen/schemalog/schema"
)

var outPath string

var rootCmd = &cobra.Command{
	Use:   "schemalog-demo",
	Short: "Write a small sample schemalog stream",
	RunE:  run,
}

type tick struct {
	Symbol string  `schemalog:"symbol"`
	Price  float64 `schemalog:"price"`
	Size   int32   `schemalog:"size"`
}

func run(cmd *cobra.Command, args []string) error {
	sink, err := schemalog.NewFileSink(outPath)
	if err != nil {
		return err
	}

	w, err := schemalog.NewWriter(sink, schemalog.WithLogger(logrus.StandardLogger()))
	if err != nil {
		return err
	}
	defer w.Close()

	ints, err := w.AddChannel("ints", schema.Int32Schema)
	if err != nil {
		return err
	}
	if err := ints.Put(int32(42)); err != nil {
		return err
	}

	for i, t := range []tick{
		{Symbol: "AAPL", Price: 231.5, Size: 100},
		{Symbol: "MSFT", Price: 410.25, Size: 50},
	} {
		if err := w.WriteName("ticks", t); err != nil {
			return fmt.Errorf("write tick %d: %w", i, err)
		}
	}

	return nil
}

func main() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "schemalog-demo.bin", "Output file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
