package drill

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/verte-zerg/typewriter/internal/exercise"
)

// LoadFile reads a drill from disk. A .yaml or .yml file holds a list of
// drills; anything else is answer text with an optional // caption.
func LoadFile(path string) ([]Drill, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		drills, err := DecodeList(data)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
		return drills, nil
	}

	a, err := ReadText(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []Drill{{Title: title, Answer: a.Answer, Caption: a.Caption}}, nil
}

// ReadText reads answer text, dropping blank lines, and splits off the
// caption.
func ReadText(r io.Reader) (exercise.Assignment, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return exercise.Assignment{}, err
	}
	a := exercise.SplitAssignment(strings.Join(lines, "\n"))
	if a.Answer == "" {
		return exercise.Assignment{}, errors.New("drill text is empty")
	}
	return a, nil
}
