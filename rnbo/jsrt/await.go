//go:build js && wasm

// Package jsrt binds the browser's RNBO runtime (window.RNBO) to the rnbo
// interfaces.
package jsrt

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
)

// Await blocks until promise settles. It must not run on the JS event loop
// goroutine (i.e. inside a js.Func callback).
func Await(ctx context.Context, promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{v: arg0(args)}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{err: jsError(arg0(args))}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

// try converts a thrown JS exception into an error
func try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jerr, ok := r.(js.Error); ok {
				err = jsError(jerr.Value)
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

func arg0(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

func jsError(v js.Value) error {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return errors.New(msg.String())
		}
	}
	if v.IsUndefined() || v.IsNull() {
		return errors.New("unknown javascript error")
	}
	return fmt.Errorf("javascript error: %s", v.String())
}

// parseJSON turns Go-encoded JSON into a JS value
func parseJSON(data []byte) (js.Value, error) {
	var v js.Value
	err := try(func() {
		v = js.Global().Get("JSON").Call("parse", string(data))
	})
	return v, err
}

func floatArray(values []float64) js.Value {
	arr := js.Global().Get("Array").New(len(values))
	for i, v := range values {
		arr.SetIndex(i, v)
	}
	return arr
}

func byteArray(data []byte) js.Value {
	arr := js.Global().Get("Array").New(len(data))
	for i, b := range data {
		arr.SetIndex(i, int(b))
	}
	return arr
}

// floats reads a payload that may be a single number or a list
func floats(v js.Value) []float64 {
	switch v.Type() {
	case js.TypeNumber:
		return []float64{v.Float()}
	case js.TypeObject:
		n := v.Length()
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = v.Index(i).Float()
		}
		return out
	}
	return nil
}
