package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TraceSink receives the intermediate artifact of each pipeline stage.
// Diagnostic only: sinks must never block or fail the computation, and
// correctness never depends on a dump having happened.
type TraceSink interface {
	Dump(stage string, v interface{})
}

type nopSink struct{}

func (nopSink) Dump(string, interface{}) {}

// NopTraceSink returns a sink that discards everything.
func NopTraceSink() TraceSink {
	return nopSink{}
}

// DirTraceSink writes each stage as an indented JSON file into a scratch
// directory. Write failures are logged and ignored.
type DirTraceSink struct {
	dir string
}

// NewDirTraceSink creates a sink dumping into dir.
func NewDirTraceSink(dir string) *DirTraceSink {
	return &DirTraceSink{dir: dir}
}

func (s *DirTraceSink) Dump(stage string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to encode %s trace: %v", stage, err)
		return
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("Warning: failed to create trace directory %s: %v", s.dir, err)
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.json",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		stage,
	)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		log.Printf("Warning: failed to write %s trace: %v", stage, err)
	}
}
