package funcs

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/aadamsx/josson/internal/node"
)

// WasmModule wraps a loaded WebAssembly module exposing query functions,
// per SPEC_FULL.md's domain stack entry for tetratelabs/wazero: it lets an
// operator extend the builtin catalog without recompiling.
//
// Each exported function must have the shape (ptr, len uint32) -> uint64,
// taking the UTF-8 JSON text of the array [subject, args...] and returning
// the result's location in the module's linear memory packed as
// ptr<<32 | len, where the result is UTF-8 JSON text. The module must also
// export "malloc", which is called to allocate the argument buffer.
type WasmModule struct {
	runtime  wazero.Runtime
	module   api.Module
	exported map[string]api.Function
}

// LoadWasmModule instantiates wasmBytes and registers one catalog entry
// per exported function name in exportNames.
func LoadWasmModule(ctx context.Context, c Catalog, wasmBytes []byte, exportNames []string) (*WasmModule, error) {
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(err, "instantiate wasm module")
	}
	wm := &WasmModule{runtime: rt, module: mod, exported: make(map[string]api.Function)}
	for _, name := range exportNames {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			wm.Close(ctx)
			return nil, errors.Errorf("wasm module does not export function %q", name)
		}
		wm.exported[name] = fn
		c[name] = wm.callFn(name)
	}
	return wm, nil
}

func (wm *WasmModule) callFn(name string) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		payload := node.NewArray(append([]*node.Node{cur}, args...)...)
		in := []byte(node.Marshal(payload))

		mem := wm.module.Memory()
		malloc := wm.module.ExportedFunction("malloc")
		if malloc == nil {
			return nil, errors.Errorf("wasm module missing malloc export, required to call %q", name)
		}
		results, err := malloc.Call(context.Background(), uint64(len(in)))
		if err != nil {
			return nil, errors.Wrapf(err, "allocate memory for wasm call %q", name)
		}
		ptr := uint32(results[0])
		if !mem.Write(ptr, in) {
			return nil, errors.Errorf("write argument memory for wasm call %q", name)
		}

		fn := wm.exported[name]
		outResults, err := fn.Call(context.Background(), uint64(ptr), uint64(len(in)))
		if err != nil {
			return nil, errors.Wrapf(err, "call wasm function %q", name)
		}
		outPtr := uint32(outResults[0] >> 32)
		outLen := uint32(outResults[0])
		raw, ok := mem.Read(outPtr, outLen)
		if !ok {
			return nil, errors.Errorf("read result memory for wasm call %q", name)
		}
		return node.Parse(raw)
	}
}

// Close releases the module's runtime resources.
func (wm *WasmModule) Close(ctx context.Context) error {
	return wm.runtime.Close(ctx)
}
