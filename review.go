package journalcrop

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	figureNumberPattern = regexp.MustCompile(`图(\d{1,3})`)
	tableNumberPattern  = regexp.MustCompile(`表(\d{1,3})`)
)

// Verdict is the outcome of reviewing one article directory.
type Verdict string

const (
	VerdictOK      Verdict = "ok"
	VerdictProblem Verdict = "problem"
)

// ReviewResult records where an article directory was moved.
type ReviewResult struct {
	Article string
	Verdict Verdict
	Dest    string
	Err     error
}

// Review sorts the article directories under imageDir. A directory whose
// figure numbers and table numbers each run 1..n without gaps or repeats
// moves to okDir; an empty directory or any other moves to problemDir.
func Review(imageDir, okDir, problemDir string, log logrus.FieldLogger) ([]ReviewResult, error) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", imageDir)
	}
	for _, dir := range []string{okDir, problemDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	var results []ReviewResult
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		src := filepath.Join(imageDir, e.Name())

		verdict, err := reviewDir(src)
		if err != nil {
			results = append(results, ReviewResult{Article: e.Name(), Err: err})
			continue
		}

		dest := filepath.Join(problemDir, e.Name())
		if verdict == VerdictOK {
			dest = filepath.Join(okDir, e.Name())
		}
		res := ReviewResult{Article: e.Name(), Verdict: verdict, Dest: dest}
		if err := os.Rename(src, dest); err != nil {
			res.Err = errors.Wrapf(err, "failed to move %s", src)
		} else {
			log.WithFields(logrus.Fields{"article": e.Name(), "verdict": verdict}).Infof("%s ---> %s", src, dest)
		}
		results = append(results, res)
	}
	return results, nil
}

func reviewDir(dir string) (Verdict, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to list %s", dir)
	}
	if len(files) == 0 {
		return VerdictProblem, nil
	}

	var figures, tables []int
	for _, f := range files {
		if n, ok := labelNumber(figureNumberPattern, f.Name()); ok {
			figures = append(figures, n)
		}
		if n, ok := labelNumber(tableNumberPattern, f.Name()); ok {
			tables = append(tables, n)
		}
	}

	if IsSequential(figures) && IsSequential(tables) {
		return VerdictOK, nil
	}
	return VerdictProblem, nil
}

func labelNumber(pattern *regexp.Regexp, name string) (int, bool) {
	m := pattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// IsSequential reports whether numbers, once sorted, are exactly 1..n.
// An empty list is sequential.
func IsSequential(numbers []int) bool {
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	for i, n := range sorted {
		if n != i+1 {
			return false
		}
	}
	return true
}

// Pending lists the PDFs in inputDir whose article has not been reviewed
// into okDir or problemDir yet.
func Pending(inputDir, okDir, problemDir string) ([]string, error) {
	paths, err := ListPDFs(inputDir)
	if err != nil {
		return nil, err
	}

	reviewed := make(map[string]bool)
	for _, dir := range []string{okDir, problemDir} {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to list %s", dir)
		}
		for _, e := range entries {
			reviewed[e.Name()] = true
		}
	}

	var pending []string
	for _, p := range paths {
		name := ArticleName(p, nil, DefaultHeadingSizes())
		if !reviewed[name] && !reviewed[watermarkPrefix+name] {
			pending = append(pending, p)
		}
	}
	return pending, nil
}
