package main

import (
	"fmt"
	"time"

	"github.com/extism/go-pdk"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"github.com/wbrown/timex"
)

// Request is the msgpack input of extract. Lang falls back to the plugin
// config key "lang", then English; an empty Base means now.
type Request struct {
	Lang string `msgpack:"lang"`
	Text string `msgpack:"text"`
	Base string `msgpack:"base"`
}

type Response struct {
	Results [][]string `msgpack:"results"`
	Markup  string     `msgpack:"markup"`
	Error   string     `msgpack:"error,omitempty"`
}

func configLang(lang string) string {
	if lang != "" {
		return lang
	}
	if lang, ok := pdk.GetConfig("lang"); ok && lang != "" {
		return lang
	}
	return "en"
}

func run(req Request) (timex.Extraction, string, error) {
	extractor, err := timex.Default(configLang(req.Lang))
	if err != nil {
		return timex.Extraction{}, "", err
	}
	base := time.Now().UTC()
	if req.Base != "" {
		if base, err = timex.ParseBase(req.Base); err != nil {
			return timex.Extraction{}, "", err
		}
	}
	results, tokens := extractor.Extract(req.Text, base)
	return timex.NewExtraction(results, tokens), extractor.Markup(req.Text),
		nil
}

//go:wasmexport extract
func Extract() int32 {
	var req Request
	if err := msgpack.Unmarshal(pdk.Input(), &req); err != nil {
		pdk.SetError(err)
		return 1
	}
	var resp Response
	extraction, markup, err := run(req)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Results, resp.Markup = extraction.Results, markup
	}
	bytes, err := msgpack.Marshal(&resp)
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(bytes)
	return 0
}

//go:wasmexport extract_json
func ExtractJSON() int32 {
	extraction, _, err := run(Request{Text: pdk.InputString()})
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	out, err := extraction.JSON()
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(out)
	return 0
}

//go:wasmexport markup
func Markup() int32 {
	extractor, err := timex.Default(configLang(""))
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.OutputString(extractor.Markup(pdk.InputString()))
	return 0
}

func ExtractFull() error {
	// Mostly for debugging
	req := Request{Lang: "en", Text: "tomorrow at 9 AM",
		Base: "2025-01-21T08:00:00Z"}
	bytes, err := msgpack.Marshal(&req)
	if err != nil {
		return err
	}
	var again Request
	if err = msgpack.Unmarshal(bytes, &again); err != nil {
		return err
	}
	extraction, markup, err := run(again)
	if err != nil {
		return err
	}
	fmt.Println(markup, extraction.Results)
	return nil
}

func main() {
	err := ExtractFull()
	if err != nil {
		fmt.Println("Error:", err)
	}
}
