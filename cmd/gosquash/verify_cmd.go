// cmd/gosquash/verify_cmd.go

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <compressed> <original>",
		Short: "Check that a compressed file decompresses back to the original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			compressedPath, originalPath := args[0], args[1]

			c, err := codecForPath(compressedPath)
			if err != nil {
				return err
			}

			got, err := digestDecompressed(c, compressedPath)
			if err != nil {
				return err
			}
			want, err := digestFile(originalPath)
			if err != nil {
				return err
			}

			if got != want {
				return fmt.Errorf("MISMATCH: %s does not decompress to %s", compressedPath, originalPath)
			}
			fmt.Printf("OK: %s matches %s (%s)\n", compressedPath, originalPath, c.ID())
			return nil
		},
	}
	return cmd
}

// codecForPath picks the codec from the file extension
func codecForPath(path string) (codec.Codec, error) {
	for _, id := range codec.Available() {
		c, _ := codec.Lookup(id)
		if strings.HasSuffix(path, "."+c.Extension()) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no registered codec matches extension of %q", path)
}

func digestDecompressed(c codec.Codec, path string) ([32]byte, error) {
	var zero [32]byte
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	r, err := c.NewReader(f)
	if err != nil {
		return zero, fmt.Errorf("open decoder: %w", err)
	}
	defer r.Close()

	return digest(r)
}

func digestFile(path string) ([32]byte, error) {
	var zero [32]byte
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return digest(f)
}

func digest(r io.Reader) ([32]byte, error) {
	var out [32]byte
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return out, err
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}
