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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/iodb"
	"github.com/gnames/gnnorm/internal/ioschema"
	"github.com/gnames/gnnorm/pkg/schema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the import history schema",
		Long: `Create the PostgreSQL schema that keeps the history of imports.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing history tables and prompts for confirmation
  3. Creates history tables using GORM AutoMigrate

The schema is used when scheduler.history is set to "postgres".

Use --force to skip confirmation and drop existing history tables.
Use --all to drop every table of the database, not only history tables.
Use --ddl to print the schema as SQL without connecting.

Examples:
  gnnorm create
  gnnorm create --force
  gnnorm create --ddl > schema.sql`,
		RunE: runCreate,
	}

	createCmd.Flags().BoolP("force", "f", false,
		"drop existing tables without confirmation")
	createCmd.Flags().Bool("all", false,
		"drop all tables of the database")
	createCmd.Flags().Bool("ddl", false,
		"print the schema as SQL and exit")

	return createCmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	all, _ := cmd.Flags().GetBool("all")
	ddl, _ := cmd.Flags().GetBool("ddl")

	if ddl {
		fmt.Fprint(cmd.OutOrStdout(), schema.DDL())
		return nil
	}

	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	var exists bool
	var err error
	if all {
		exists, err = op.HasTables(ctx)
	} else {
		exists, err = op.TableExists(ctx, schema.ImportAttempt{}.TableName())
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if exists && !force {
		gn.Warn("\nWarning: Database contains existing tables.")
		gn.Warn("Creating schema will drop them together with import history.")
		ok, err := confirm(cmd.InOrStdin())
		if err != nil {
			gn.Warn("Failed to read user input")
			return err
		}
		if !ok {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	if exists && all {
		gn.Info("Dropping all existing tables...")
		if err = op.DropAllTables(ctx); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)

	gn.Info("Creating schema using GORM AutoMigrate...")
	if err = sm.Create(ctx, cfg, exists && !all); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nImport history schema creation complete!")
	gn.Info("Set <em>scheduler.history</em> to <em>postgres</em> to use it.")
	return nil
}

// confirm asks the user to continue, only "yes" and "y" agree.
func confirm(r io.Reader) (bool, error) {
	fmt.Print("\nDo you want to continue? (yes/no): ")

	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}
