// pkg/squash/batch_test.go
package squash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/creativeyann17/go-squash/pkg/atomicfile"
	"github.com/creativeyann17/go-squash/pkg/codec"
)

func gzipOnly(t *testing.T) ItemConfig {
	t.Helper()
	return mustConfig(t, 0, mustSpec(t, codec.Gzip, 0))
}

func TestRunOrderPreservation(t *testing.T) {
	// Wildly different sizes so completion order differs from input
	// order under parallel execution
	var inputs []Input
	var wantIDs []string
	for i := 0; i < 32; i++ {
		id := fmt.Sprintf("item-%02d", i)
		size := 1
		if i%3 == 0 {
			size = 512 * 1024
		}
		inputs = append(inputs, NewBufferInput(id, bytes.Repeat([]byte{byte(i)}, size)))
		wantIDs = append(wantIDs, id)
	}

	cfg := gzipOnly(t)
	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg }, nil,
		Options{MaxWorkers: 8})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if diff := cmp.Diff(wantIDs, res.IDs()); diff != "" {
		t.Errorf("result order != input order (-want +got):\n%s", diff)
	}
	if res.Succeeded() != len(inputs) {
		t.Errorf("succeeded %d of %d", res.Succeeded(), len(inputs))
	}
}

func TestRunGracefulCompletes(t *testing.T) {
	small := mustConfig(t, 8, mustSpec(t, codec.Gzip, 0))
	big := mustConfig(t, 0, mustSpec(t, codec.Gzip, 0))

	inputs := []Input{
		NewBufferInput("ok-1", []byte("tiny")),
		NewBufferInput("too-big", bytes.Repeat([]byte("x"), 100)),
		NewBufferInput("ok-2", []byte("tiny")),
	}
	configFor := func(id string) ItemConfig {
		if id == "too-big" {
			return small
		}
		return big
	}

	res, err := Run(context.Background(), inputs, configFor, nil, Options{})
	if err != nil {
		t.Fatalf("graceful run must complete: %v", err)
	}

	if res.Len() != 3 {
		t.Fatalf("got %d results, want 3", res.Len())
	}
	failed, _ := res.Get("too-big")
	if failed.Success() || !errors.Is(failed.Err, ErrPayloadTooLarge) {
		t.Errorf("too-big: success=%v err=%v", failed.Success(), failed.Err)
	}
	for _, id := range []string{"ok-1", "ok-2"} {
		if r, _ := res.Get(id); !r.Success() {
			t.Errorf("%s should succeed despite sibling failure", id)
		}
	}
}

func TestRunFailFastAborts(t *testing.T) {
	small := mustConfig(t, 8, mustSpec(t, codec.Gzip, 0))

	inputs := []Input{
		NewBufferInput("ok", []byte("tiny")),
		NewBufferInput("too-big", bytes.Repeat([]byte("x"), 100)),
	}
	configFor := func(id string) ItemConfig { return small }

	res, err := Run(context.Background(), inputs, configFor, nil,
		Options{FailFast: true, MaxWorkers: 1})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("got %v, want ErrPayloadTooLarge", err)
	}
	if res != nil {
		t.Error("fail-fast must not return a partial BatchResult")
	}
}

func TestRunNoInputs(t *testing.T) {
	if _, err := Run(context.Background(), nil, nil, nil, Options{}); !errors.Is(err, ErrNoInputs) {
		t.Errorf("got %v, want ErrNoInputs", err)
	}
}

func TestRunDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(strings.Repeat("write me to disk ", 400))

	inputs := []Input{NewBufferInput("report.txt", payload)}
	cfg := mustConfig(t, 0, mustSpec(t, codec.Gzip, 0), mustSpec(t, codec.Zstd, 0))

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: dir, Policy: atomicfile.Replace}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	item, _ := res.Get("report.txt")
	if !item.Success() {
		t.Fatalf("item failed: %v", item.Errors())
	}

	for id, ext := range map[codec.ID]string{codec.Gzip: "gz", codec.Zstd: "zst"} {
		path := filepath.Join(dir, "report.txt."+ext)
		compressed, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}

		cr := item.PerCodec[id]
		if cr.Path != path {
			t.Errorf("%s: result path %q, want %q", id, cr.Path, path)
		}
		if cr.CompressedSize != int64(len(compressed)) {
			t.Errorf("%s: recorded size %d, file size %d", id, cr.CompressedSize, len(compressed))
		}
		if cr.Data != nil {
			t.Errorf("%s: directory target should not buffer data in memory", id)
		}

		c, _ := codec.Lookup(id)
		restored, err := codec.DecompressBytes(c, compressed)
		if err != nil {
			t.Fatalf("%s: decompress: %v", id, err)
		}
		if !bytes.Equal(restored, payload) {
			t.Errorf("%s: round trip mismatch", id)
		}
	}
}

func TestRunDirectoryKeepsSourceStructure(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	nested := filepath.Join(srcDir, "logs", "app")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	srcFile := filepath.Join(nested, "today.log")
	if err := os.WriteFile(srcFile, bytes.Repeat([]byte("log line\n"), 1000), 0644); err != nil {
		t.Fatal(err)
	}

	inputs := []Input{NewFileInputRel(srcFile, filepath.Join("logs", "app", "today.log"))}
	cfg := gzipOnly(t)

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: outDir, KeepSourceStructure: true}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Failed() != 0 {
		t.Fatalf("run had failures: %v", res.Items()[0].Errors())
	}

	want := filepath.Join(outDir, "logs", "app", "today.log.gz")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("mirrored output missing: %v", err)
	}
}

func TestRunDirectorySkipPolicy(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "item.gz")
	if err := os.WriteFile(existing, []byte("pre-existing"), 0644); err != nil {
		t.Fatal(err)
	}

	inputs := []Input{NewBufferInput("item", bytes.Repeat([]byte("y"), 4096))}
	cfg := mustConfig(t, 0, mustSpec(t, codec.Gzip, 0), mustSpec(t, codec.Zstd, 0))

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: dir, Policy: atomicfile.Skip}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	item, _ := res.Get("item")
	if !item.Success() {
		t.Fatalf("item failed: %v", item.Errors())
	}

	// Skipped codec left the existing file alone and recorded no attempt
	if data, _ := os.ReadFile(existing); string(data) != "pre-existing" {
		t.Errorf("skip policy overwrote target: %q", data)
	}
	if _, attempted := item.PerCodec[codec.Gzip]; attempted {
		t.Error("skipped codec should not record an attempt")
	}
	if _, err := os.Stat(filepath.Join(dir, "item.zst")); err != nil {
		t.Errorf("non-skipped codec output missing: %v", err)
	}
}

func TestRunDirectoryFailPolicy(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "item.gz"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	inputs := []Input{NewBufferInput("item", []byte("payload"))}
	cfg := mustConfig(t, 0, mustSpec(t, codec.Gzip, 0), mustSpec(t, codec.Zstd, 0))

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: dir, Policy: atomicfile.Fail, AtomicAll: true}, Options{})
	if err != nil {
		t.Fatalf("graceful run must complete: %v", err)
	}

	item, _ := res.Get("item")
	if item.Success() {
		t.Error("fail policy violation should fail the item")
	}
	if !errors.Is(item.Err, atomicfile.ErrTargetExists) {
		t.Errorf("item error = %v, want ErrTargetExists", item.Err)
	}
	// All-or-nothing: sibling codec left no file behind
	if _, err := os.Stat(filepath.Join(dir, "item.zst")); !os.IsNotExist(err) {
		t.Error("item.zst should not exist after failed set write")
	}
}

func TestRunDirectoryVerifyCatchesMismatch(t *testing.T) {
	codec.Register(mangleCodec{})
	defer codec.Unregister("mangle")

	dir := t.TempDir()
	payload := bytes.Repeat([]byte("verification covers directory outputs "), 100)
	inputs := []Input{NewBufferInput("item", payload)}
	cfg := mustConfig(t, 0, mustSpec(t, codec.Gzip, 0), mustSpec(t, "mangle", 0))

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: dir}, Options{Verify: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	item, _ := res.Get("item")
	if item.Success() {
		t.Error("non-round-tripping codec must fail the item")
	}
	if !errors.Is(item.PerCodec["mangle"].Err, ErrVerifyMismatch) {
		t.Errorf("mangle err = %v, want ErrVerifyMismatch", item.PerCodec["mangle"].Err)
	}

	// The failed codec's file is discarded; the verified sibling is
	// published and decodes back to the original
	if _, err := os.Stat(filepath.Join(dir, "item.mgl")); !os.IsNotExist(err) {
		t.Error("item.mgl should not be published after failed verification")
	}
	compressed, err := os.ReadFile(filepath.Join(dir, "item.gz"))
	if err != nil {
		t.Fatalf("verified output missing: %v", err)
	}
	c, _ := codec.Lookup(codec.Gzip)
	restored, err := codec.DecompressBytes(c, compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(restored, payload) {
		t.Error("published output does not round-trip")
	}
}

func TestRunStreamTarget(t *testing.T) {
	payload := bytes.Repeat([]byte("stream target "), 1000)
	inputs := []Input{NewBufferInput("item", payload)}
	cfg := gzipOnly(t)

	var mu sync.Mutex
	buffers := make(map[string]*bytes.Buffer)

	target := Stream{
		Open: func(itemID string, spec AlgorithmSpec) (io.WriteCloser, error) {
			mu.Lock()
			defer mu.Unlock()
			buf := &bytes.Buffer{}
			buffers[itemID+"."+string(spec.Codec)] = buf
			return nopWriteCloser{buf}, nil
		},
	}

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg }, target, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Failed() != 0 {
		t.Fatalf("run had failures")
	}

	compressed := buffers["item.gzip"]
	if compressed == nil || compressed.Len() == 0 {
		t.Fatal("stream sink received no data")
	}
	c, _ := codec.Lookup(codec.Gzip)
	restored, err := codec.DecompressBytes(c, compressed.Bytes())
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(restored, payload) {
		t.Error("round trip mismatch through stream target")
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	inputs := []Input{NewBufferInput("item", bytes.Repeat([]byte("z"), 8192))}
	cfg := gzipOnly(t)

	res, err := Run(context.Background(), inputs, func(string) ItemConfig { return cfg },
		Directory{Path: dir}, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	item, _ := res.Get("item")
	if !item.Success() {
		t.Fatalf("dry run item failed: %v", item.Errors())
	}
	if item.PerCodec[codec.Gzip].CompressedSize == 0 {
		t.Error("dry run should still measure compressed size")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
