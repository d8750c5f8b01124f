package translator

import (
	"context"
	"fmt"
	"log"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr == nil {
			log.Printf("Shader translator initialized")
		}
	})
	return translator, initErr
}

// Translate converts WebGL2 source for a "vertex" or "fragment" stage into
// the context's dialect. It returns the translated code and a map from each
// declared variable name to the name it carries in the translated code.
func Translate(source, stage string, isGLES bool) (string, map[string]string, error) {
	t, err := GetTranslator()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	result, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(result.Variables))
	for name, v := range result.Variables {
		names[name] = v.MappedName
	}
	return result.Code, names, nil
}
