package collector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// 描述文案最多保留的字符数
const descriptionMaxRunes = 300

// PlainText 把上游的 HTML 片段（HN 的 text 字段等）转成纯文本，
// 折叠空白并按 rune 截断。解析失败时退回原文。
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	text := s
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			// <p> 之间没有空白，按文本节点拼接并以空格分隔
			var parts []string
			for _, n := range doc.Find("body").Nodes {
				parts = appendText(parts, n)
			}
			text = strings.Join(parts, " ")
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncateRunes(text, descriptionMaxRunes)
}

func appendText(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendText(parts, c)
	}
	return parts
}

// truncateRunes 按 rune 截断，超出时补省略号
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return strings.TrimSpace(string(rs[:limit])) + "…"
}
