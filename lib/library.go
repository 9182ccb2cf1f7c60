package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"time"
	"unsafe"

	"github.com/wbrown/timex"
)

type failure struct {
	Error string `json:"error"`
}

func encodeFailure(err error) *C.char {
	out, _ := json.Marshal(failure{Error: err.Error()})
	return C.CString(string(out))
}

func extractString(lang, text, base string) *C.char {
	extractor, err := timex.Default(lang)
	if err != nil {
		return encodeFailure(err)
	}
	baseTime := time.Now().UTC()
	if base != "" {
		if baseTime, err = timex.ParseBase(base); err != nil {
			return encodeFailure(err)
		}
	}
	results, tokens := extractor.Extract(text, baseTime)
	out, err := timex.NewExtraction(results, tokens).JSON()
	if err != nil {
		return encodeFailure(err)
	}
	return C.CString(string(out))
}

//export extract
// extract accepts a language, the text and a base time as C strings, and
// returns a malloc'ed JSON document {"results": [...], "tags": [...]} or
// {"error": "..."}. An empty base means now. The caller releases the result
// with freeString.
func extract(lang *C.char, text *C.char, base *C.char) *C.char {
	return extractString(C.GoString(lang), C.GoString(text),
		C.GoString(base))
}

//export extractBuffer
// extractBuffer is extract for text that is not NUL terminated.
func extractBuffer(lang *C.char, buf *C.char, sz C.size_t,
	base *C.char) *C.char {
	text := unsafe.String((*byte)(unsafe.Pointer(buf)), int(sz))
	return extractString(C.GoString(lang), text, C.GoString(base))
}

//export freeString
func freeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

// testExtract exercises the C interface from Go, and is here rather than in
// the test package as the test package is incompatible with CGo.
func testExtract(lang, text, base string) string {
	langC, textC, baseC := C.CString(lang), C.CString(text), C.CString(base)
	defer C.free(unsafe.Pointer(langC))
	defer C.free(unsafe.Pointer(textC))
	defer C.free(unsafe.Pointer(baseC))
	out := extract(langC, textC, baseC)
	defer freeString(out)
	return C.GoString(out)
}

// testExtractBuffer is testExtract through extractBuffer.
func testExtractBuffer(lang string, text []byte, base string) string {
	langC, baseC := C.CString(lang), C.CString(base)
	defer C.free(unsafe.Pointer(langC))
	defer C.free(unsafe.Pointer(baseC))
	buf := C.CBytes(text)
	defer C.free(buf)
	out := extractBuffer(langC, (*C.char)(buf), C.size_t(len(text)), baseC)
	defer freeString(out)
	return C.GoString(out)
}

func main() {}
