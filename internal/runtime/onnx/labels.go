package onnx

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"visiond/internal/common/fsutil"
)

// LoadLabels reads one class label per line. Blank lines are skipped and
// labels are NFC-normalised. An empty path yields no labels; classes then
// render as "class N".
func LoadLabels(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		l := strings.TrimSpace(norm.NFC.String(sc.Text()))
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return out, nil
}

// labeler maps output indices to labels. Models with one more output than
// labels carry a leading "background" class, which is skipped.
type labeler struct {
	labels  []string
	offset  int
	classes int
}

func newLabeler(labels []string, classes int) labeler {
	l := labeler{labels: labels, classes: classes}
	if len(labels) > 0 && classes == len(labels)+1 {
		l.offset = 1
	}
	return l
}

func (l labeler) label(i int) string {
	j := i - l.offset
	if j >= 0 && j < len(l.labels) {
		return l.labels[j]
	}
	if i == 0 && l.offset == 1 {
		return "background"
	}
	return fmt.Sprintf("class %d", i)
}
