// Package calibration provides performance calibration for the pi calculator.
// This file implements calibration profile persistence.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CalibrationProfile stores the results of a calibration run.
// It captures both the optimal tuning parameters and the hardware context
// to allow validation of cached results.
type CalibrationProfile struct {
	// Hardware identification
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"` // 32 or 64

	// Calibrated tuning parameters (default/fallback values)
	OptimalChunkSize       uint64 `json:"optimal_chunk_size"`
	OptimalHybridThreshold uint64 `json:"optimal_hybrid_threshold"`

	// Tuning by digit range for more accurate calibration
	TuningByRange []RangeTuning `json:"tuning_by_range,omitempty"`

	// Calibration metadata
	CalibratedAt      time.Time `json:"calibrated_at"`
	CalibrationDigits uint64    `json:"calibration_digits"`
	CalibrationTime   string    `json:"calibration_time"`

	// Version for forward compatibility
	ProfileVersion int `json:"profile_version"`
}

// RangeTuning stores optimal tuning parameters for a specific range of digit
// counts. This allows for more accurate parameter selection based on the
// problem size.
type RangeTuning struct {
	// MinDigits is the minimum digit count (inclusive) for this range
	MinDigits uint64 `json:"min_digits"`
	// MaxDigits is the maximum digit count (inclusive) for this range
	MaxDigits uint64 `json:"max_digits"`
	// ChunkSize is the optimal work-stealing chunk size for this range
	ChunkSize uint64 `json:"chunk_size"`
	// HybridThreshold is the optimal hybrid crossover for this range
	HybridThreshold uint64 `json:"hybrid_threshold,omitempty"`
	// ConfidenceScore indicates the reliability of these parameters (0-1)
	ConfidenceScore float64 `json:"confidence_score"`
	// MeasurementCount is the number of measurements used to derive these parameters
	MeasurementCount int `json:"measurement_count"`
}

const (
	// CurrentProfileVersion is the current version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration profile file.
	DefaultProfileFileName = ".picalc_calibration.json"
)

// Predefined digit ranges for calibration
var DefaultDigitRanges = []struct {
	MinDigits, MaxDigits uint64
	Label                string
}{
	{0, 10000, "small"},                // < 10K digits
	{10000, 100000, "medium"},          // 10K <= d < 100K
	{100000, 1000000, "large"},         // 100K <= d < 1M
	{1000000, 10000000, "xlarge"},      // 1M <= d < 10M
	{10000000, ^uint64(0), "huge"},     // >= 10M digits
}

// GetDefaultProfilePath returns the default path for the calibration profile.
// It uses the user's home directory if available, otherwise the current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates a new CalibrationProfile with current hardware info.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63), // 32 or 64
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// getCPUModel attempts to get a CPU model identifier.
// This is platform-specific and may return a generic value.
func getCPUModel() string {
	// On most systems, GOARCH + NumCPU is a reasonable identifier.
	// A more sophisticated implementation could read /proc/cpuinfo on Linux
	// or use syscalls on other platforms
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// LoadProfile loads a calibration profile from the specified path.
// Returns nil and an error if the file doesn't exist or can't be parsed.
func LoadProfile(path string) (*CalibrationProfile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

// SaveProfile saves the calibration profile to the specified path.
// If path is empty, uses the default profile path.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// IsValid checks if the profile is valid for the current hardware.
// A profile is considered valid if:
// - The profile version matches
// - The number of CPUs matches
// - The architecture matches
// - The word size matches
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}

	// Check version compatibility
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}

	// Check hardware compatibility
	if p.NumCPU != runtime.NumCPU() {
		return false
	}

	if p.GOARCH != runtime.GOARCH {
		return false
	}

	wordSize := 32 << (^uint(0) >> 63)
	if p.WordSize != wordSize {
		return false
	}

	return true
}

// IsStale checks if the profile is older than the given duration.
// This can be used to trigger re-calibration after a certain period.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}

	rangeInfo := ""
	if len(p.TuningByRange) > 0 {
		rangeInfo = fmt.Sprintf(", Ranges: %d", len(p.TuningByRange))
	}

	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, ChunkSize: %d terms, HybridThreshold: %d digits%s, Calibrated: %s}",
		p.CPUModel,
		p.OptimalChunkSize,
		p.OptimalHybridThreshold,
		rangeInfo,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// GetTuningForDigits returns the optimal tuning parameters for a given digit
// count. If a matching range is found with sufficient confidence, those
// parameters are returned. Otherwise, the default parameters are returned.
func (p *CalibrationProfile) GetTuningForDigits(digits uint64) (chunkSize, hybridThreshold uint64) {
	if p == nil {
		return 0, 0
	}

	// Search for a matching range with good confidence
	for _, r := range p.TuningByRange {
		if digits >= r.MinDigits && digits <= r.MaxDigits && r.ConfidenceScore >= 0.5 {
			chunkSize = r.ChunkSize
			hybridThreshold = r.HybridThreshold
			if hybridThreshold == 0 {
				hybridThreshold = p.OptimalHybridThreshold
			}
			return chunkSize, hybridThreshold
		}
	}

	// Fall back to default parameters
	return p.OptimalChunkSize, p.OptimalHybridThreshold
}

// AddRangeTuning adds or updates tuning parameters for a specific digit range.
// If a range with the same bounds exists, it is updated with the new values
// using a weighted average based on measurement counts.
func (p *CalibrationProfile) AddRangeTuning(r RangeTuning) {
	// Look for existing range with same bounds
	for i, existing := range p.TuningByRange {
		if existing.MinDigits == r.MinDigits && existing.MaxDigits == r.MaxDigits {
			// Update existing range with weighted average
			totalCount := existing.MeasurementCount + r.MeasurementCount
			if totalCount > 0 {
				existingWeight := float64(existing.MeasurementCount) / float64(totalCount)
				newWeight := float64(r.MeasurementCount) / float64(totalCount)

				p.TuningByRange[i].ChunkSize = uint64(float64(existing.ChunkSize)*existingWeight + float64(r.ChunkSize)*newWeight)
				p.TuningByRange[i].HybridThreshold = uint64(float64(existing.HybridThreshold)*existingWeight + float64(r.HybridThreshold)*newWeight)
				p.TuningByRange[i].ConfidenceScore = (existing.ConfidenceScore*existingWeight + r.ConfidenceScore*newWeight)
				p.TuningByRange[i].MeasurementCount = totalCount
			}
			return
		}
	}

	// Add new range
	p.TuningByRange = append(p.TuningByRange, r)
}

// InitializeDefaultRanges initializes the profile with default range entries.
// This is useful when creating a new profile to ensure all ranges have some values.
func (p *CalibrationProfile) InitializeDefaultRanges() {
	if len(p.TuningByRange) > 0 {
		return // Already has ranges
	}

	for _, r := range DefaultDigitRanges {
		p.TuningByRange = append(p.TuningByRange, RangeTuning{
			MinDigits:        r.MinDigits,
			MaxDigits:        r.MaxDigits,
			ChunkSize:        p.OptimalChunkSize,
			HybridThreshold:  p.OptimalHybridThreshold,
			ConfidenceScore:  0.3, // Low confidence for defaults
			MeasurementCount: 0,
		})
	}
}

// LoadOrCreateProfile loads an existing profile or creates a new one if not found.
// If the existing profile is invalid for the current hardware, returns a new profile.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		// File doesn't exist or can't be read - create new
		return NewProfile(), false
	}

	if !profile.IsValid() {
		// Profile is incompatible with current hardware - create new
		return NewProfile(), false
	}

	return profile, true
}

// ProfileExists checks if a calibration profile exists at the given path.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
