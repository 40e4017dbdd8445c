// Package lecture runs one uploaded lecture video through the pipeline:
// spool and hash the upload, reuse or produce the transcript and summary
// through the result cache, and build the search index.
//
//	p, err := lecture.New(lecture.Deps{
//		Transcriber: stt,
//		Extractor:   media.NewFFmpeg(media.Config{}, log),
//		Summarizer:  summarizer.New(completer),
//		Embedder:    embedder,
//		Cache:       cache.NewRedisStore(client),
//	}, lecture.Config{})
//	res, err := p.Process(ctx, upload)
//
// Only transcription failure aborts a run. Summarization degrades to
// placeholders and an indexing failure is reported in Result.IndexError
// next to the transcript and summary.
package lecture
