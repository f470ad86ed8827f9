// Package i18n 消息模板目录，模板中的 {0}、{1} ... 按位置替换为参数
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Catalog struct {
	messages map[string]string
}

// Load 从 yaml 文件读取模板，嵌套 key 展开为 a.b.c 形式
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read message catalog: %w", err)
	}

	messages := make(map[string]string)
	for _, key := range v.AllKeys() {
		messages[key] = v.GetString(key)
	}
	return &Catalog{messages: messages}, nil
}

func NewCatalog(messages map[string]string) *Catalog {
	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[strings.ToLower(k)] = v
	}
	return &Catalog{messages: copied}
}

// Message 未知 key 原样返回 key 本身
func (c *Catalog) Message(key string, params ...any) string {
	tpl, ok := c.messages[strings.ToLower(key)]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return tpl
	}

	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(p))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[strings.ToLower(key)]
	return ok
}
