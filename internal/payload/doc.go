// Package payload wraps files into the JSON record that rsakit encrypts.
//
// A payload looks like:
//
//	{"name":"report.pdf","type":"application/pdf","size":48213,"content":"JVBERi0x..."}
//
// size is the original byte length and content is standard base64. Base64
// is streamed in bounded blocks in both directions so large files do not
// need a second full-size copy while encoding.
package payload
