package main

import (
	"testing"

	"stampbook/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text        string
		wantCommand string
		wantArgs    string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"/sign", "/sign", ""},
		{"/sign@stampbook_bot", "/sign", ""},
		{"/album@stampbook_bot 10086", "/album", "10086"},
		{"图鉴  10086 ", "图鉴", "10086"},
		{"图鉴\n10086", "图鉴", "10086"},
		{"mail@example.com", "mail@example.com", ""},
	}
	for _, tt := range tests {
		command, args := splitCommand(tt.text)
		assert.Equal(t, tt.wantCommand, command, tt.text)
		assert.Equal(t, tt.wantArgs, args, tt.text)
	}
}

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		text     string
		endpoint string
		args     string
		ok       bool
	}{
		{"签到", "/sign", "", true},
		{"盖章", "/sign", "", true},
		{"妈!", "/sign", "", true},
		{"妈！", "/sign", "", true},
		{"排行榜", "/album", "", true},
		{"收集册 42", "/album", "42", true},
		{"图鉴 bob", "/album", "bob", true},
		{"签到吧", "", "", false},
		{"hello 签到", "", "", false},
	}
	for _, tt := range tests {
		endpoint, args, ok := resolveAlias(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.Equal(t, tt.endpoint, endpoint, tt.text)
			assert.Equal(t, tt.args, args, tt.text)
		}
	}
}

func TestSignCaption(t *testing.T) {
	caption := signCaption(&models.SignResult{
		UserName:       "Alice",
		Affection:      4,
		AffectionTotal: 11,
		Stamp:          models.Stamp{ID: "s1"},
		Rank:           2,
		Todo:           "摸鱼",
		Hitokoto:       "生活明朗，万物可爱。",
	})
	assert.Contains(t, caption, "Alice，签到成功！")
	assert.Contains(t, caption, "好感 +4（累计 11）")
	assert.Contains(t, caption, "获得印章：s1")
	assert.Contains(t, caption, "第 2 名")
	assert.Contains(t, caption, "今日宜：摸鱼")
	assert.Contains(t, caption, "「生活明朗，万物可爱。」")

	caption = signCaption(&models.SignResult{UserName: "None"})
	assert.NotContains(t, caption, "「")
}

func TestAlbumCaption(t *testing.T) {
	assert.Equal(t, "Bob 的收集册：0/4，还没有上榜", albumCaption("Bob", &models.AlbumView{Stamps: []string{}, Total: 4}))
	assert.Equal(t, "Bob 的收集册：2/4，群内排名第 1 名", albumCaption("Bob", &models.AlbumView{Stamps: []string{"s1", "s2"}, Total: 4, Rank: 1}))
}
