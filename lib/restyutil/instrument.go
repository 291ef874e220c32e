package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient dumps every completed exchange of `client` into
// `output` as "<n>-<method>.txt". a nil output makes this a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d-%s.txt", atomic.AddUint64(&idcounter, 1), res.Request.Method)
		output.Write(id, FormatHttpMessage(res))
		slog.DebugContext(
			res.Request.Context(), "dumped http message",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"message_id", id,
		)
		return nil
	})
}
