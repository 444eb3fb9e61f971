package exercise

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Overrides is a partial threshold configuration loaded from JSON. Fields are
// pointers so omitted values keep the canonical profile defaults. Durations
// are duration strings like "15s".
type Overrides struct {
	Normal *Band `json:"normal,omitempty"`
	Trans  *Band `json:"trans,omitempty"`
	Pass   *Band `json:"pass,omitempty"`

	OffsetThresh   *float64 `json:"offset_thresh,omitempty"`
	InactiveThresh *string  `json:"inactive_thresh,omitempty"`
	KneeLockMax    *float64 `json:"knee_lock_max,omitempty"`
	TorsoTiltMax   *float64 `json:"torso_tilt_max,omitempty"`
	RepMinRange    *float64 `json:"rep_min_range,omitempty"`
	HoldTarget     *string  `json:"hold_target,omitempty"`

	BannerTTLFrames *int `json:"banner_ttl_frames,omitempty"`
}

// LoadOverrides reads an Overrides file. The path must have a .json
// extension and stay under the size cap; partial files are safe.
func LoadOverrides(path string) (*Overrides, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("overrides file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat overrides file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("overrides file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var ov Overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse overrides JSON: %w", err)
	}
	return &ov, nil
}

// Apply merges the overrides onto a base profile and validates the result.
func (ov *Overrides) Apply(base Profile) (Profile, error) {
	p := base
	if ov == nil {
		return p, nil
	}
	if ov.Normal != nil {
		p.Normal = *ov.Normal
	}
	if ov.Trans != nil {
		p.Trans = *ov.Trans
	}
	if ov.Pass != nil {
		p.Pass = *ov.Pass
	}
	if ov.OffsetThresh != nil {
		p.OffsetThresh = *ov.OffsetThresh
	}
	if ov.InactiveThresh != nil {
		d, err := time.ParseDuration(*ov.InactiveThresh)
		if err != nil {
			return Profile{}, fmt.Errorf("invalid inactive_thresh: %w", err)
		}
		p.InactiveThresh = d
	}
	if ov.KneeLockMax != nil {
		p.KneeLockMax = *ov.KneeLockMax
	}
	if ov.TorsoTiltMax != nil {
		p.TorsoTiltMax = *ov.TorsoTiltMax
	}
	if ov.RepMinRange != nil {
		p.RepMinRange = *ov.RepMinRange
	}
	if ov.HoldTarget != nil {
		d, err := time.ParseDuration(*ov.HoldTarget)
		if err != nil {
			return Profile{}, fmt.Errorf("invalid hold_target: %w", err)
		}
		p.HoldTarget = d
	}
	if ov.BannerTTLFrames != nil {
		p.BannerTTLFrames = *ov.BannerTTLFrames
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid configuration after overrides: %w", err)
	}
	return p, nil
}
