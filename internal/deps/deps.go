package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary lyricalign shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// TranscriptionRequirements lists the binaries needed to transcribe audio.
// WhisperX decodes audio through ffmpeg, so both must resolve on PATH.
func TranscriptionRequirements() []Requirement {
	return []Requirement{
		{Name: "uv", Command: "uvx", Description: "runs WhisperX in an ephemeral environment"},
		{Name: "FFmpeg", Command: "ffmpeg", Description: "decodes audio for WhisperX"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
				status.Detail = path
			}
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the required entries that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
