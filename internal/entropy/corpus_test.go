package entropy

import (
	"io/fs"
	"testing"

	"github.com/ulikunitz/zdata"
)

// corpusFiles returns the Silesia corpus files, truncated to limit
// bytes each.
func corpusFiles(t testing.TB, limit int) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := fs.WalkDir(zdata.Silesia, ".",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(zdata.Silesia, path)
			if err != nil {
				return err
			}
			if len(data) > limit {
				data = data[:limit]
			}
			files[path] = data
			return nil
		})
	if err != nil {
		t.Fatalf("fs.WalkDir error %s", err)
	}
	return files
}

// bitPlaneSymbols turns data into decisions the way a bit-plane coder
// would see them: each bit is coded in a context selected by its
// position and the previous bit.
func bitPlaneSymbols(data []byte) (ctxs, bits []int) {
	ctxs = make([]int, 0, len(data)*8)
	bits = make([]int, 0, len(data)*8)
	prev := 0
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bit := int(b>>i) & 1
			ctxs = append(ctxs, (7-i)*2%CtxUni+prev)
			bits = append(bits, bit)
			prev = bit
		}
	}
	return ctxs, bits
}

func TestMQ_SilesiaRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping corpus test in short mode")
	}
	for path, data := range corpusFiles(t, 1<<16) {
		path, data := path, data
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			ctxs, bits := bitPlaneSymbols(data)
			encoded := encodeAll(ctxs, bits)
			checkStuffing(t, encoded)
			checkDecode(t, encoded, ctxs, bits)
			t.Logf("%s: %d bytes -> %d bytes", path, len(data), len(encoded))
		})
	}
}

func BenchmarkMQEncoder_Silesia(b *testing.B) {
	files := corpusFiles(b, 1<<14)
	var ctxs, bits []int
	for _, data := range files {
		c, d := bitPlaneSymbols(data)
		ctxs = append(ctxs, c...)
		bits = append(bits, d...)
	}

	enc := NewMQEncoder()
	b.SetBytes(int64(len(bits) / 8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		enc.Reset()
		for j, bit := range bits {
			enc.Encode(ctxs[j], bit)
		}
		enc.Flush()
	}
}
