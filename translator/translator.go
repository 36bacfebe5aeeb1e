// Package translator turns GLSL ES 3.00 sources into desktop GLSL 4.10
// through ANGLE's shader translator.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

// Result is a translated shader stage.
type Result struct {
	Code string
	// Names maps identifiers declared in the source to the names the
	// translated code uses for them.
	Names map[string]string
}

// Translator converts one shader stage ("vertex" or "fragment").
type Translator interface {
	Translate(stage, source string) (*Result, error)
}

type angleTranslator struct {
	mu sync.Mutex
	st *gst.ShaderTranslator
}

var (
	shared     *angleTranslator
	sharedErr  error
	sharedOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first
// use. Creation compiles the translator module, so it is done lazily.
func GetTranslator() (Translator, error) {
	sharedOnce.Do(func() {
		st, err := gst.NewShaderTranslator(context.Background())
		if err != nil {
			sharedErr = fmt.Errorf("failed to create shader translator: %w", err)
			return
		}
		shared = &angleTranslator{st: st}
	})
	if sharedErr != nil {
		return nil, sharedErr
	}
	return shared, nil
}

func (t *angleTranslator) Translate(stage, source string) (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, err := t.st.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, err
	}
	res := &Result{Code: out.Code, Names: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		res.Names[name] = v.MappedName
	}
	return res, nil
}

// MappedName looks up the translated name of a source identifier,
// returning the identifier itself when the translator kept it.
func (r *Result) MappedName(name string) string {
	if r != nil {
		if mapped, ok := r.Names[name]; ok && mapped != "" {
			return mapped
		}
	}
	return name
}
