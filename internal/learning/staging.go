package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stagingSubdir is where staged captures live under the checkout top.
const stagingSubdir = ".intent/learnings"

// StagedResult pairs a staged file with its integration result.
type StagedResult struct {
	File   string  `json:"file"`
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// QueueCapture writes an entry to a unique staging file under the
// checkout, to be integrated later by DrainStaged. Because every
// capture gets its own file, concurrent producers never contend on a
// document; only the drain step takes document locks.
func QueueCapture(checkout string, entry Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}

	dir := filepath.Join(checkout, stagingSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}

	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding staged entry: %w", err)
	}

	// Timestamp prefix keeps drain order FIFO; the uuid keeps names
	// unique under concurrent captures in the same nanosecond.
	name := fmt.Sprintf("%d-%s.json", time.Now().UnixNano(), uuid.NewString())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing staged entry: %w", err)
	}
	return path, nil
}

// DrainStaged integrates all staged captures under the checkout in
// capture order. Integrated and duplicate entries have their staging
// files removed; failed ones are kept for a later drain.
func DrainStaged(ctx context.Context, checkout string, integrator *Integrator, logger *zap.Logger) ([]StagedResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Join(checkout, stagingSubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading staging directory: %w", err)
	}

	var files []string
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		files = append(files, de.Name())
	}
	sort.Strings(files)

	var results []StagedResult
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path := filepath.Join(dir, name)
		staged := StagedResult{File: path}

		data, err := os.ReadFile(path)
		if err != nil {
			staged.Err = err.Error()
			results = append(results, staged)
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// Unparseable captures are kept for manual inspection.
			logger.Warn("skipping unparseable staged capture",
				zap.String("file", path), zap.Error(err))
			staged.Err = err.Error()
			results = append(results, staged)
			continue
		}

		result, err := integrator.Integrate(ctx, entry)
		if err != nil {
			staged.Err = err.Error()
			results = append(results, staged)
			continue
		}
		staged.Result = result
		results = append(results, staged)

		if result.Outcome == OutcomeIntegrated || result.Outcome == OutcomeDuplicate {
			if err := os.Remove(path); err != nil {
				logger.Warn("failed to remove drained capture",
					zap.String("file", path), zap.Error(err))
			}
		}
	}
	return results, nil
}
