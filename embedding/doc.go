// Package embedding defines the sentence embedding backend used to build and
// query the search index.
//
// Backends register by name:
//
//	import _ "github.com/kbukum/lecturekit/embedding/openai"
//	import _ "github.com/kbukum/lecturekit/embedding/onnx"
//
//	e, err := embedding.New(embedding.Config{Provider: "onnx", ModelPath: "model.onnx"})
//	vectors, err := embedding.Embed(ctx, e, []string{"the sun is a star"})
package embedding
