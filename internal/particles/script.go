package particles

import (
	"fmt"
	"os"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/yaegi/interp"
)

// ScriptImport is the import path scripts use for the host API.
const ScriptImport = "layerpaper"

var symbols = interp.Exports{
	ScriptImport + "/layerpaper": map[string]reflect.Value{
		"Host":     reflect.ValueOf((*Host)(nil)),
		"Particle": reflect.ValueOf((*Particle)(nil)),
		"Spawn":    reflect.ValueOf((*Spawn)(nil)),
	},
}

// LoadScript interprets the Go source at path and returns its Update
// function as a Behavior. The script is a main package:
//
//	package main
//
//	import "layerpaper"
//
//	func Update(h *layerpaper.Host) { ... }
func LoadScript(path string) (Behavior, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return CompileScript(path, string(src))
}

func CompileScript(name, src string) (Behavior, error) {
	in := interp.New(interp.Options{})
	if err := in.Use(symbols); err != nil {
		return nil, err
	}

	if _, err := in.Eval(src); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}

	v, err := in.Eval("main.Update")
	if err != nil {
		return nil, fmt.Errorf("%s: no Update function: %w", name, err)
	}
	update, ok := v.Interface().(func(*Host))
	if !ok {
		return nil, fmt.Errorf("%s: Update has type %s, want func(*layerpaper.Host)", name, v.Type())
	}

	return func(h *Host) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("Particle script %s: %v", name, r)
			}
		}()
		update(h)
	}, nil
}
