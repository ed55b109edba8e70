// Package logging provides categorized logging for tfsmith.
// Each pipeline stage logs under its own category so a failed run can be
// traced stage by stage. Output goes through a single zap core; --verbose
// flips the level to debug.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/pipeline stage.
type Category string

const (
	CategorySchema     Category = "schema"     // Schema export, document decoding, extraction
	CategoryDocs       Category = "docs"       // Provider documentation fetch
	CategoryPrompt     Category = "prompt"     // Instruction payload composition
	CategoryGeneration Category = "generation" // Backend calls
	CategorySanitize   Category = "sanitize"   // Output sanitization
	CategoryValidate   Category = "validate"   // Consistency enforcement
	CategoryWriter     Category = "writer"     // Module directory writes
	CategoryPipeline   Category = "pipeline"   // Per-resource run orchestration
)

var (
	mu      sync.RWMutex
	root    *zap.SugaredLogger
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the process-wide logger. Safe to call more than once;
// the last call wins.
func Initialize(verbose bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	mu.Lock()
	root = logger.Sugar()
	loggers = make(map[Category]*zap.SugaredLogger)
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Get returns the logger for a category, creating it on first use.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = zap.NewNop().Sugar()
	}
	l, ok := loggers[cat]
	if !ok {
		l = root.With("category", string(cat))
		loggers[cat] = l
	}
	return l
}

// Per-category printf helpers for the hot paths.

func SchemaDebug(format string, args ...interface{})  { Get(CategorySchema).Debugf(format, args...) }
func SchemaError(format string, args ...interface{})  { Get(CategorySchema).Errorf(format, args...) }
func DocsDebug(format string, args ...interface{})    { Get(CategoryDocs).Debugf(format, args...) }
func DocsWarn(format string, args ...interface{})     { Get(CategoryDocs).Warnf(format, args...) }
func PromptDebug(format string, args ...interface{})  { Get(CategoryPrompt).Debugf(format, args...) }
func Generation(format string, args ...interface{})   { Get(CategoryGeneration).Infof(format, args...) }
func GenerationDebug(format string, args ...interface{}) {
	Get(CategoryGeneration).Debugf(format, args...)
}
func GenerationError(format string, args ...interface{}) {
	Get(CategoryGeneration).Errorf(format, args...)
}
func SanitizeDebug(format string, args ...interface{}) { Get(CategorySanitize).Debugf(format, args...) }
func ValidateDebug(format string, args ...interface{}) { Get(CategoryValidate).Debugf(format, args...) }
func ValidateError(format string, args ...interface{}) { Get(CategoryValidate).Errorf(format, args...) }
func WriterDebug(format string, args ...interface{})   { Get(CategoryWriter).Debugf(format, args...) }
func Pipeline(format string, args ...interface{})      { Get(CategoryPipeline).Infof(format, args...) }
func PipelineWarn(format string, args ...interface{})  { Get(CategoryPipeline).Warnf(format, args...) }
func PipelineError(format string, args ...interface{}) { Get(CategoryPipeline).Errorf(format, args...) }
