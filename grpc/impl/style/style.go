// Package style asks a vision model which font and color each band of a
// menu uses. Inference is best effort: every failure yields the default map.
package style

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/result"
)

// DefaultTimeout bounds a single inference call.
const DefaultTimeout = 20 * time.Second

// Inferrer is implemented by every style backend.
type Inferrer interface {
	Infer(ctx context.Context, img image.Image) (menu.StyleMap, error)
}

var errNoBackend = errors.New("no style backend configured")

type Adapter struct {
	inferrer Inferrer
	timeout  time.Duration
}

// New wraps inferrer with a timeout. A nil inferrer is allowed and always
// degrades to the default map.
func New(inferrer Inferrer, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{inferrer: inferrer, timeout: timeout}
}

// InferStyles never fails. A backend error, an invalid answer or an expired
// timeout all produce Degraded(menu.DefaultStyles()).
func (a *Adapter) InferStyles(ctx context.Context, img image.Image) result.Result[menu.StyleMap] {
	if a == nil || a.inferrer == nil {
		return degraded(errNoBackend)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type answer struct {
		styles menu.StyleMap
		err    error
	}
	answerChan := make(chan answer, 1)
	go func() {
		styles, err := a.inferrer.Infer(ctx, img)
		answerChan <- answer{styles, err}
	}()

	// Backends that ignore ctx are abandoned when the deadline passes.
	select {
	case <-ctx.Done():
		return degraded(ctx.Err())
	case answer := <-answerChan:
		if answer.err != nil {
			return degraded(answer.err)
		}
		if len(answer.styles) == 0 {
			return degraded(errors.New("style backend returned no regions"))
		}
		return result.Ok(answer.styles)
	}
}

func degraded(cause error) result.Result[menu.StyleMap] {
	reason := common.StyleInferenceDegraded(cause)
	log.Warn().Err(cause).Str("reason", string(common.KindStyleInferenceDegraded)).Msg("Style inference degraded to defaults")
	return result.Degraded(menu.DefaultStyles(), reason)
}
