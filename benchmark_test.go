package timex

import (
	"testing"
	"time"
)

var englishCorpus = []string{
	"tomorrow at 9 AM",
	"from 9:30 to 11:00 on Thursday",
	"let's catch up next Monday or the Friday after next",
	"the invoice is due in 2 weeks and 3 days",
	"we met on January 21st, 2025 at a quarter past ten",
	"every other week until the end of the month",
	"Thanksgiving dinner is at 6 in the evening",
	"hello world, nothing to see here",
}

var chineseCorpus = []string{
	"明天上午9点开会",
	"从9点到11点",
	"下周一下午三点半",
	"三天后提醒我",
	"国庆节前一天",
	"每周一早上8点",
	"二〇二五年三月五日",
}

func benchmarkExtract(b *testing.B, extractor *Extractor, corpus []string,
	cached bool) {
	b.StopTimer()
	if extractor == nil {
		b.Fatal("extractor failed to build")
	}
	if !cached {
		var err error
		extractor, err = NewExtractor(extractor.Lang, &Options{LruSize: 1})
		if err != nil {
			b.Fatal(err)
		}
	}
	base := time.Date(2025, time.January, 21, 8, 0, 0, 0, time.UTC)
	start := time.Now()
	b.StartTimer()
	found := 0
	for i := 0; i < b.N; i++ {
		results, _ := extractor.Extract(corpus[i%len(corpus)], base)
		found += len(results)
	}
	b.StopTimer()
	elapsed := time.Since(start)
	b.ReportMetric(float64(b.N)/elapsed.Seconds(), "sentences/sec")
	b.ReportMetric(float64(found)/float64(b.N), "results/op")
}

func BenchmarkExtract_English(b *testing.B) {
	benchmarkExtract(b, english, englishCorpus, true)
}

func BenchmarkExtract_EnglishUncached(b *testing.B) {
	benchmarkExtract(b, english, englishCorpus, false)
}

func BenchmarkExtract_Chinese(b *testing.B) {
	benchmarkExtract(b, chinese, chineseCorpus, true)
}

func BenchmarkExtract_ChineseUncached(b *testing.B) {
	benchmarkExtract(b, chinese, chineseCorpus, false)
}

func BenchmarkNewExtractor(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := NewExtractor("en", nil); err != nil {
			b.Fatal(err)
		}
	}
}
