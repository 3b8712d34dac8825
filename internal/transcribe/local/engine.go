package local

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/transcribe"
	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
	"github.com/pkg/errors"
)

const (
	sampleRate = 16000
	chunkSec   = 30
)

var (
	encoderCandidates = []string{
		"encoder.int8.onnx",
		"encoder.onnx",
		"base-encoder.int8.onnx",
		"base-encoder.onnx",
		"small-encoder.int8.onnx",
		"small-encoder.onnx",
		"turbo-encoder.int8.onnx",
		"turbo-encoder.onnx",
	}
	decoderCandidates = []string{
		"decoder.int8.onnx",
		"decoder.onnx",
		"base-decoder.int8.onnx",
		"base-decoder.onnx",
		"small-decoder.int8.onnx",
		"small-decoder.onnx",
		"turbo-decoder.int8.onnx",
		"turbo-decoder.onnx",
	}
	tokensCandidates = []string{
		"tokens.txt",
		"base-tokens.txt",
		"small-tokens.txt",
		"turbo-tokens.txt",
	}
)

// Engine runs a whisper model on this machine through sherpa-onnx. The
// recognizer is loaded on first use and shared by every job; decoding is
// serialized to keep a single model's memory footprint.
type Engine struct {
	cfg      config.LocalEngineConfig
	language string
	handle   *transcribe.Handle[*sherpa.OfflineRecognizer]
	decodeMu sync.Mutex
}

func New(cfg config.LocalEngineConfig, language string) *Engine {
	e := &Engine{cfg: cfg, language: language}
	e.handle = transcribe.NewHandle(e.loadRecognizer)
	return e
}

func (e *Engine) Name() string {
	return "local"
}

func (e *Engine) Transcribe(ctx context.Context, audioPath, language string) (transcribe.RawResult, error) {
	recognizer, err := e.handle.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load local model")
	}

	samples, err := decodePCM(ctx, e.cfg.FFmpegPath, audioPath)
	if err != nil {
		return nil, err
	}

	e.decodeMu.Lock()
	defer e.decodeMu.Unlock()

	timed, err := transcribeChunks(ctx, samples, func(chunk []float32) (string, string) {
		return decodeChunk(recognizer, chunk)
	})
	if err != nil {
		return nil, err
	}
	if timed.Language == "" {
		timed.Language = language
	}
	if timed.Language == "" {
		timed.Language = e.language
	}
	return timed, nil
}

// transcribeChunks decodes samples in fixed windows and turns every window
// with text into a segment. The first language the decoder reports wins.
func transcribeChunks(ctx context.Context, samples []float32, decode func([]float32) (string, string)) (transcribe.TimedText, error) {
	var out transcribe.TimedText
	var parts []string
	chunk := sampleRate * chunkSec
	for start := 0; start < len(samples); start += chunk {
		if err := ctx.Err(); err != nil {
			return transcribe.TimedText{}, err
		}
		end := min(start+chunk, len(samples))
		text, lang := decode(samples[start:end])
		if out.Language == "" {
			out.Language = cleanLanguage(lang)
		}
		if text == "" {
			continue
		}
		out.Segments = append(out.Segments, transcribe.TimedSegment{
			Start: float64(start) / sampleRate,
			End:   float64(end) / sampleRate,
			Text:  text,
		})
		parts = append(parts, text)
	}
	out.Text = strings.Join(parts, " ")
	return out, nil
}

// cleanLanguage turns whisper's "<|pt|>" token into "pt".
func cleanLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	lang = strings.TrimPrefix(lang, "<|")
	lang = strings.TrimSuffix(lang, "|>")
	return strings.TrimSpace(lang)
}

func (e *Engine) Close() {
	e.handle.Close(sherpa.DeleteOfflineRecognizer)
}

func (e *Engine) loadRecognizer() (*sherpa.OfflineRecognizer, error) {
	encoder := findModelFile(e.cfg.ModelDir, encoderCandidates)
	decoder := findModelFile(e.cfg.ModelDir, decoderCandidates)
	tokens := findModelFile(e.cfg.ModelDir, tokensCandidates)
	switch {
	case encoder == "":
		return nil, errors.Errorf("encoder model not found in %s", e.cfg.ModelDir)
	case decoder == "":
		return nil, errors.Errorf("decoder model not found in %s", e.cfg.ModelDir)
	case tokens == "":
		return nil, errors.Errorf("tokens file not found in %s", e.cfg.ModelDir)
	}

	numThreads := e.cfg.NumThreads
	if numThreads <= 0 {
		numThreads = 1
	}
	cfg := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: sampleRate,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Whisper: sherpa.OfflineWhisperModelConfig{
				Encoder:  encoder,
				Decoder:  decoder,
				Language: e.language,
				Task:     "transcribe",
			},
			Tokens:     tokens,
			NumThreads: numThreads,
		},
	}
	recognizer := sherpa.NewOfflineRecognizer(&cfg)
	if recognizer == nil {
		return nil, errors.New("failed to create whisper recognizer")
	}
	return recognizer, nil
}

func decodeChunk(recognizer *sherpa.OfflineRecognizer, samples []float32) (string, string) {
	stream := sherpa.NewOfflineStream(recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, samples)
	recognizer.Decode(stream)
	result := stream.GetResult()
	if result == nil {
		return "", ""
	}
	return strings.TrimSpace(result.Text), result.Lang
}

func findModelFile(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// decodePCM converts any audio file to 16 kHz mono float samples with ffmpeg.
func decodePCM(ctx context.Context, ffmpeg, audioPath string) ([]float32, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-i", audioPath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "start ffmpeg")
	}

	raw, readErr := io.ReadAll(bufio.NewReader(stdout))
	if err := cmd.Wait(); err != nil {
		return nil, errors.Errorf("ffmpeg failed: %s", strings.TrimSpace(stderr.String()))
	}
	if readErr != nil {
		return nil, errors.Wrap(readErr, "read ffmpeg output")
	}
	return pcm16ToFloat32(raw), nil
}

func pcm16ToFloat32(raw []byte) []float32 {
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / math.MaxInt16
	}
	return samples
}
