package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a navigation file in canonical layout",
	Long: `Parses navtreedata.js, a navtreeindexN.js shard or an external subtree file
and prints it back in canonical layout. With --write the file is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

var shardName = regexp.MustCompile(`^navtreeindex(\d+)\.js$`)

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "write the result back to the file")
	fmtCmd.Flags().String("ref", "", "subtree reference the file was loaded by (defaults to the file name)")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	enc := navtree.NewEncoder(&buf)
	base := filepath.Base(path)

	switch m := shardName.FindStringSubmatch(base); {
	case base == navtree.DataFileName:
		b, err := navtree.ParseBundle(cmd.Context(), f)
		if err != nil {
			return err
		}
		if err := enc.EncodeBundle(b); err != nil {
			return err
		}
	case m != nil:
		n, _ := strconv.Atoi(m[1])
		entries, err := navtree.ParseShard(cmd.Context(), f, n)
		if err != nil {
			return err
		}
		if err := enc.EncodeShard(n, entries); err != nil {
			return err
		}
	default:
		ref, _ := cmd.Flags().GetString("ref")
		if ref == "" {
			ref = strings.TrimSuffix(base, ".js")
		}
		sub, err := navtree.ParseSubtree(cmd.Context(), f, ref)
		if err != nil {
			return err
		}
		if err := enc.EncodeSubtree(sub); err != nil {
			return err
		}
	}
	f.Close()

	if write, _ := cmd.Flags().GetBool("write"); write {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
