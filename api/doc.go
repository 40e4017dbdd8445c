// Package api exposes the lecture pipeline over HTTP:
//
//	POST /process_video  multipart "file"             -> transcript, summary, search index
//	POST /search         {query, search_index, embeddings} -> {result, score, index, matched}
//	POST /highlights     {transcript, keywords}       -> {highlights}
//
// Errors use the server error envelope.
package api
