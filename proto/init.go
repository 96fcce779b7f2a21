package proto

import "github.com/coralstore/diskctl/cmn"

// ReadInit consumes the one-shot init handshake (spec §6): T, M, N,
// V, G, K on one line, then three M×F matrices (delete, write, read),
// and acknowledges with "OK".
func ReadInit(r *Reader, w *Writer) *cmn.Config {
	cfg := &cmn.Config{
		T: r.Int(),
		M: r.Int(),
		N: r.Int(),
		V: r.Int(),
		G: r.Int(),
		K: r.Int(),
	}
	cfg.SliceCount = cmn.DeriveSliceCount(cfg.V)
	f := cmn.FreqLen(cfg.T)
	cfg.FreqDel = readMatrix(r, cfg.M, f)
	cfg.FreqWrite = readMatrix(r, cfg.M, f)
	cfg.FreqRead = readMatrix(r, cfg.M, f)
	cfg.TimeBlockBonus = make([]int, f)

	w.Line("OK")
	w.Flush()
	return cfg
}

// readMatrix reads an M×F matrix, 1-indexed on the tag axis (row 0
// unused), 0-indexed on the time-block axis to match cmn.TimeBlock.
func readMatrix(r *Reader, m, f int) [][]int {
	out := make([][]int, m+1)
	for t := 1; t <= m; t++ {
		out[t] = make([]int, f)
		for c := 0; c < f; c++ {
			out[t][c] = r.Int()
		}
	}
	return out
}
