package pkgrouter

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // this must compare directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			//nolint:contextcheck // request context is still valid here
			slog.ErrorContext(r.Context(), "panic on the server", "because", rvr)
			printStackTrace(os.Stderr, debug.Stack())

			if r.Header.Get("Connection") == "Upgrade" {
				return
			}
			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// printStackTrace writes only the frames that belong to this module's
// internal/ tree, trimmed to "internal/...go:line".
func printStackTrace(w *os.File, stack []byte) {
	fmt.Fprintln(w, "===== ===== START ===== =====")
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}
		frame := line[idx+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		fmt.Fprintln(w, "stack trace: ", frame)
	}
	fmt.Fprintln(w, "===== ===== END ===== =====")
}
