package util

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeTags 去空白、去空串、忽略大小写去重，保留首次出现的写法和顺序
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// Snippet 列表页的正文摘要：取 HTML 中的文本，截断到 limit 个字符
func Snippet(html string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	parts := make([]string, 0, 8)
	doc.Find("*").Not("script,style").Contents().Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "#text" {
			parts = append(parts, sel.Text())
		}
	})
	text := strings.Join(strings.FieldsFunc(strings.Join(parts, " "), unicode.IsSpace), " ")

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}
