package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"time"

	. "github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/future"
	"github.com/lollipopkit/coronest/suspend"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// http.get is the runtime's reference suspendable: a script call
// suspends the invocation, the request runs on its own goroutine with
// no VM lock held, and the response body resolves the suspendable's
// return value. Every other stdlib function in this package is a
// plain synchronous GoFunction; this is the one that actually
// exercises the suspend contract end to end.
func OpenHttpLib(ls LkState) int {
	ls.NewLib(map[string]GoFunction{
		"get": suspend.NewSuspendable(httpGet),
	})
	return 1
}

func httpGet(args []any) *future.Future[suspend.Result] {
	if len(args) < 1 {
		return future.Completed(suspend.Err(fmt.Errorf("http.get: expected a url argument")))
	}
	url, ok := args[0].(string)
	if !ok {
		return future.Completed(suspend.Err(fmt.Errorf("http.get: expected a string url, got %T", args[0])))
	}

	f := future.New[suspend.Result]()
	go func() {
		resp, err := httpClient.Get(url)
		if err != nil {
			f.Resolve(suspend.Err(err))
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			f.Resolve(suspend.Err(err))
			return
		}
		f.Resolve(suspend.Value(string(body)))
	}()
	return f
}
