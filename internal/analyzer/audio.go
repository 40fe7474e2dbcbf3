package analyzer

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// audioLabels is the fixed label set emitted by the audio heuristic. These
// are lexical variants of the canonical labels on purpose: fusion treats
// labels as open string keys and must not fold them.
var audioLabels = []string{"happy", "sad", "angry", "neutral", "fear", "surprise"}

// audioFeatures are coarse signal statistics standing in for a full acoustic
// feature pipeline.
type audioFeatures struct {
	rms      float64 // Root-mean-square amplitude, normalized to [0,1]
	zcr      float64 // Zero-crossing rate in [0,1]
	centroid float64 // Dominant-frequency estimate in Hz
}

// AudioAnalyzer classifies emotion from coarse 16-bit PCM WAV statistics.
// Loud bright signals read as happy, very quiet as sad, harsh as angry, the
// rest as neutral. It is a randomized stand-in for a real acoustic model
// that still reacts to the actual signal.
type AudioAnalyzer struct {
	rng *lockedRand
}

// NewAudioAnalyzer creates an audio analyzer. Seed zero selects a time-based
// seed; a fixed seed makes output reproducible.
func NewAudioAnalyzer(seed int64) *AudioAnalyzer {
	return &AudioAnalyzer{rng: newLockedRand(seed)}
}

// Name returns the analyzer name
func (a *AudioAnalyzer) Name() string {
	return "audio-heuristic"
}

// IsAvailable always reports true: the heuristic has no external dependency.
func (a *AudioAnalyzer) IsAvailable(ctx context.Context) bool {
	return true
}

// Analyze decodes the WAV data, extracts signal statistics, and maps them to
// a normalized distribution over the audio label set.
func (a *AudioAnalyzer) Analyze(ctx context.Context, in Input) (model.EmotionDistribution, error) {
	feats, err := extractAudioFeatures(in.Data)
	if err != nil {
		return nil, model.NewAnalysisError(model.ModalityAudio, err)
	}
	return a.classify(feats), nil
}

// classify maps signal statistics to a jittered distribution. Labels not set
// by the matched branch are filled with a low floor, then the whole
// distribution is normalized to sum to 100.
func (a *AudioAnalyzer) classify(f audioFeatures) model.EmotionDistribution {
	scores := make(map[string]float64, len(audioLabels))

	switch {
	case f.rms > 0.5 && f.centroid > 2000:
		scores["happy"] = 60 + a.rng.NormFloat64()*10
		scores["surprise"] = 25 + a.rng.NormFloat64()*8
	case f.rms < 0.05:
		scores["sad"] = 55 + a.rng.NormFloat64()*12
		scores["neutral"] = 30 + a.rng.NormFloat64()*8
	case f.zcr > 0.1:
		scores["angry"] = 50 + a.rng.NormFloat64()*10
		scores["fear"] = 35 + a.rng.NormFloat64()*8
	default:
		scores["neutral"] = 45 + a.rng.NormFloat64()*10
		scores["happy"] = 30 + a.rng.NormFloat64()*8
	}

	for _, label := range audioLabels {
		if _, ok := scores[label]; !ok {
			scores[label] = math.Max(5, 20+a.rng.NormFloat64()*5)
		}
	}

	dist := make(model.EmotionDistribution, 0, len(audioLabels))
	for _, label := range audioLabels {
		c := scores[label]
		if c < 0 {
			c = 0
		}
		dist = append(dist, model.EmotionScore{Emotion: label, Confidence: c})
	}
	return dist.Normalized()
}

// extractAudioFeatures decodes 16-bit PCM WAV data and computes coarse
// statistics from the first channel.
func extractAudioFeatures(data []byte) (audioFeatures, error) {
	samples, sampleRate, err := decodeWAV(data)
	if err != nil {
		return audioFeatures{}, err
	}

	var sumSq float64
	crossings := 0
	for i, s := range samples {
		v := float64(s) / 32768.0
		sumSq += v * v
		if i > 0 && (s < 0) != (samples[i-1] < 0) {
			crossings++
		}
	}

	f := audioFeatures{
		rms: math.Sqrt(sumSq / float64(len(samples))),
	}
	if len(samples) > 1 {
		f.zcr = float64(crossings) / float64(len(samples)-1)
	}
	// Each full cycle crosses zero twice, so ZCR approximates the dominant
	// frequency relative to the sample rate.
	f.centroid = f.zcr * float64(sampleRate) / 2
	return f, nil
}

// decodeWAV parses a RIFF/WAVE container and returns the first channel of
// 16-bit PCM samples. Other encodings are rejected.
func decodeWAV(data []byte) ([]int16, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("audio data is empty")
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		fmtFound      bool
		audioFormat   uint16
		channels      uint16
		rate          uint32
		bitsPerSample uint16
		pcm           []byte
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		if size < 0 || off+size > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk", id)
		}
		chunk := data[off : off+size]

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			audioFormat = binary.LittleEndian.Uint16(chunk[0:2])
			channels = binary.LittleEndian.Uint16(chunk[2:4])
			rate = binary.LittleEndian.Uint32(chunk[4:8])
			bitsPerSample = binary.LittleEndian.Uint16(chunk[14:16])
			fmtFound = true
		case "data":
			pcm = chunk
		}

		off += size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}

	if !fmtFound {
		return nil, 0, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return nil, 0, fmt.Errorf("missing data chunk")
	}
	if audioFormat != 1 || bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported encoding: format=%d bits=%d (want 16-bit PCM)", audioFormat, bitsPerSample)
	}
	if channels == 0 || rate == 0 {
		return nil, 0, fmt.Errorf("invalid fmt chunk: channels=%d rate=%d", channels, rate)
	}

	frameSize := int(channels) * 2
	n := len(pcm) / frameSize
	if n == 0 {
		return nil, 0, fmt.Errorf("audio signal is empty")
	}

	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*frameSize : i*frameSize+2]))
	}
	return samples, int(rate), nil
}
