package model

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const (
	// MaxPreviewLines is the ceiling on the number of lines cached verbatim.
	MaxPreviewLines = 1000

	// maxLineLength is the longest acceptable line. Anything longer means the
	// file is not a text file.
	maxLineLength = 16384

	// exactCountLimit is the largest file that is scanned to the end to count
	// lines exactly once the preview ceiling has been reached. Bigger files
	// get an estimated total instead.
	exactCountLimit = 4 << 20

	// detectSampleSize is how many raw bytes the encoding detector inspects.
	detectSampleSize = 4096
)

// Compressed text file extensions handled transparently by the line cache.
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// TextFile is a bounded line cache over a text file. It reads the file once
// at construction, decodes it to UTF-8, retains the first MaxPreviewLines
// lines verbatim, and records the exact or estimated total line count.
// Cached lines never change afterwards.
type TextFile struct {
	path     string
	encoding string
	lines    []string

	totalLines   uint64
	totalIsExact bool
}

// NewTextFile opens path and fills the line cache. encodingName may be a
// concrete encoding name, or empty/"Auto" to run detection over the leading
// raw bytes; detection failures degrade to UTF-8 rather than failing the
// open. Compressed files (.gz, .bz2, .xz, .zst) are decompressed
// transparently.
func NewTextFile(path, encodingName string) (*TextFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	size := int64(-1)
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}

	counting := &countingReader{r: f}
	raw, err := wrapDecompressor(counting, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	buffered := bufio.NewReaderSize(raw, 64<<10)

	resolved := encodingName
	if EncodingIsAuto(encodingName) {
		sample, _ := buffered.Peek(detectSampleSize)
		resolved = GuessEncoding(sample, encodingFallback(encodingName))
	}
	decoder, err := decoderFor(resolved)
	if err != nil {
		return nil, fmt.Errorf("open %s: encoding %q: %w", path, resolved, err)
	}

	tf := &TextFile{path: path, encoding: resolved}

	scanner := bufio.NewScanner(decoder.Reader(buffered))
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength+1)

	for len(tf.lines) < MaxPreviewLines && scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(tf.lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if len(line) > maxLineLength {
			return nil, fmt.Errorf("read %s: %w", path, ErrLineTooLong)
		}
		tf.lines = append(tf.lines, line)
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, fmt.Errorf("read %s: %w", path, ErrLineTooLong)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(tf.lines) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, ErrEmptyFile)
	}

	if len(tf.lines) < MaxPreviewLines {
		// EOF reached within the preview window.
		tf.totalLines = uint64(len(tf.lines))
		tf.totalIsExact = true
		return tf, nil
	}

	if size >= 0 && size <= exactCountLimit {
		// Small file: keep scanning to the end purely to count lines.
		total := uint64(len(tf.lines))
		for scanner.Scan() {
			total++
		}
		if err := scanner.Err(); err != nil && err != bufio.ErrTooLong {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		tf.totalLines = total
		tf.totalIsExact = true
		return tf, nil
	}

	// Large file: estimate the total from the average line length seen so
	// far, and mark the count as inexact.
	consumed := counting.n - int64(buffered.Buffered())
	if consumed <= 0 {
		consumed = counting.n
	}
	if size > 0 && consumed > 0 {
		tf.totalLines = uint64(float64(len(tf.lines)) / float64(consumed) * float64(size))
		tf.totalIsExact = false
	} else {
		tf.totalLines = uint64(len(tf.lines))
		tf.totalIsExact = false
	}
	return tf, nil
}

// Path returns the file path this cache was built from.
func (tf *TextFile) Path() string { return tf.path }

// Encoding returns the resolved character encoding name.
func (tf *TextFile) Encoding() string { return tf.encoding }

// LineCount returns the number of cached preview lines.
func (tf *TextFile) LineCount() int { return len(tf.lines) }

// Line returns cached line i. It panics if i is outside the preview window;
// callers must bound their indexes by LineCount.
func (tf *TextFile) Line(i int) string { return tf.lines[i] }

// TotalLines returns the total number of lines in the file and whether that
// number is exact or estimated.
func (tf *TextFile) TotalLines() (uint64, bool) {
	return tf.totalLines, tf.totalIsExact
}

// countingReader counts the raw bytes consumed from the underlying file so
// that the total line count can be extrapolated.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// wrapDecompressor wraps r in a decompressing reader chosen by the file
// extension, or returns r unchanged for plain text.
func wrapDecompressor(r io.Reader, path string) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extGZ:
		return gzip.NewReader(r)
	case extBZ2:
		return bzip2.NewReader(r), nil
	case extXZ:
		return xz.NewReader(r)
	case extZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return r, nil
	}
}
