package transcribe

// Config captures runtime settings for WhisperX.
type Config struct {
	Model    string
	Language string // "auto" lets WhisperX detect the language
	// CUDAEnabled installs the CUDA torch wheels and runs on the GPU.
	CUDAEnabled bool
	VADMethod   string
	HFToken     string // only sent with pyannote VAD
}

// UVXCommand runs WhisperX in an ephemeral uv environment.
const UVXCommand = "uvx"

const DefaultModel = "small"

// Voice activity detection backends accepted by WhisperX.
const (
	VADMethodSilero   = "silero"
	VADMethodPyannote = "pyannote"
)

// Package indexes and devices.
const (
	PypiIndexURL   = "https://pypi.org/simple"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// decodingFlags are fixed for every run. Word-level alignment needs the JSON
// writer; the rest trade a little speed for stable timestamps on songs.
var decodingFlags = []string{
	"--output_format", "json",
	"--batch_size", "8",
	"--chunk_size", "15",
	"--beam_size", "5",
	"--temperature", "0.0",
}
