/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnnorm/internal/ioexport"
	"github.com/gnames/gnnorm/internal/ionormalize"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/parserpool"
	"github.com/spf13/cobra"
)

// getNormalizeCmd returns the normalize command.
func getNormalizeCmd() *cobra.Command {
	normalizeCmd := &cobra.Command{
		Use:   "normalize <dir>",
		Short: "Normalize one checklist archive",
		Long: `Normalize reads an unpacked ACEF, DwC-A or ColDP archive from a
directory, builds its normalized tree and prints the summary as JSON.

Names are not matched against the names index, the index is built by
scheduled imports only.

Examples:
  gnnorm normalize ~/data/col
  gnnorm normalize ~/data/col -k col -c zoological -e
  gnnorm normalize ~/data/col -p -j 8`,
		Args: cobra.ExactArgs(1),
		RunE: runNormalize,
	}

	normalizeCmd.Flags().StringP("key", "k", "",
		"dataset key, the directory name by default")
	normalizeCmd.Flags().StringP("code", "c", "",
		"nomenclatural code of the dataset")
	normalizeCmd.Flags().BoolP("export", "e", false,
		"export the result into a SQLite file")
	normalizeCmd.Flags().BoolP("progress", "p", false,
		"show progress bars")
	normalizeCmd.Flags().IntP("jobs", "j", 0,
		"number of parallel name parsing jobs")

	return normalizeCmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg.Update(flagOptions(cmd, jobsFlag, exportFlag, progressFlag))

	req, err := normalizeRequest(cmd, args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	gn.Info("Normalizing <em>%s</em>", req.Dir)
	nrm := ionormalize.New(cfg, pool, nil)
	res, err := nrm.Normalize(ctx, req)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if cfg.Normalizer.Export {
		path, err := ioexport.New(cfg).Export(ctx, res)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("Dataset exported to <em>%s</em>", path)
	}

	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(res.Summary)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func normalizeRequest(cmd *cobra.Command, dir string) (gnnorm.Request, error) {
	res := gnnorm.Request{Dir: dir}
	res.DatasetKey, _ = cmd.Flags().GetString("key")

	s, _ := cmd.Flags().GetString("code")
	code, ok := nomen.ParseCode(s)
	if !ok {
		return res, InvalidFlagError("code", s)
	}
	res.Code = code
	return res, nil
}
