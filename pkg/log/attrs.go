package log

import "log/slog"

func RunID[T ~string](id T) slog.Attr {
	return slog.String("run_id", string(id))
}

func Step[T ~string](name T) slog.Attr {
	return slog.String("step", string(name))
}

func Endpoint(url string) slog.Attr {
	return slog.String("endpoint", url)
}

func Attempt(n, of int) slog.Attr {
	return slog.Group("attempt", slog.Int("n", n), slog.Int("of", of))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
