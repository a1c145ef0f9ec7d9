package logging

import (
    "fmt"
    "io"
    "os"
    "path/filepath"
    "runtime"
    "strings"
    "time"

    "github.com/sirupsen/logrus"
)

// Log is the application wide logger configured with JSON output.
var Log = logrus.New()

type contextHook struct{}

func (contextHook) Levels() []logrus.Level { return logrus.AllLevels }

func packageFromFunc(fn string) string {
    if i := strings.LastIndex(fn, "/"); i >= 0 {
        fn = fn[i+1:]
    }
    if i := strings.Index(fn, "."); i >= 0 {
        return fn[:i]
    }
    return fn
}

func (contextHook) Fire(e *logrus.Entry) error {
    if e.Caller == nil {
        return nil
    }
    pkg := packageFromFunc(e.Caller.Function)
    file := fmt.Sprintf("%s:%d", filepath.Base(e.Caller.File), e.Caller.Line)
    e.Data["package"] = pkg
    e.Data["file"] = file
    return nil
}

func init() {
    Log.SetReportCaller(true)
    Log.SetFormatter(&logrus.JSONFormatter{
        TimestampFormat: time.RFC3339Nano,
        CallerPrettyfier: func(f *runtime.Frame) (string, string) {
            function := filepath.Base(f.Function)
            file := fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
            return function, file
        },
    })
    Log.AddHook(contextHook{})
    Log.SetOutput(os.Stdout)
    Log.SetLevel(logrus.InfoLevel)
}

// Init points Log at logPath (in addition to stdout) and applies level,
// replacing the package-init-time defaults. Called once from main at
// startup; logPath == "" keeps logging on stdout only. Falling back to
// stdout-only on a file-open failure beats panicking the whole process over
// a logging sink.
func Init(logPath, level string) {
    if logPath != "" {
        logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
        if err != nil {
            Log.WithError(err).Warn("could not open log file, logging to stdout only")
        } else {
            Log.SetOutput(io.MultiWriter(os.Stdout, logFile))
        }
    }

    if level == "" {
        level = "info"
    }
    if lvl, err := logrus.ParseLevel(level); err == nil {
        Log.SetLevel(lvl)
    } else {
        Log.SetLevel(logrus.InfoLevel)
    }
}

