package main

import (
	"fmt"
	"strings"

	"stampbook/internal/models"
)

const (
	textStart = `欢迎使用盖章簿！

每天发送 /sign（或「签到」「盖章」「妈!」）盖一次章，随机获得好感和一枚印章。
发送 /album（或「图鉴」「排行榜」「收集册」）查看收集册，后面可以跟上用户 ID，或者回复某人的消息查看 TA 的收集册。
回复签到消息发送 /background 或 /stamp 可以取回原图，%d 分钟内有效。`

	textAlreadySigned = "%s，今天已经签到过啦，明天再来叭~"
	textFailure       = "出了点问题，请稍后再试"
	textRateLimited   = "太快啦，休息一下再试吧"
	textAlbumUsage    = "用法：/album [用户 ID]，或回复某人的消息"
	textArgotUsage    = "请回复一条签到消息使用这个命令"
	textArgotExpired  = "这条消息的内容已经过期啦"
)

var aliases = map[string]string{
	"盖章":  "/sign",
	"签到":  "/sign",
	"妈!":  "/sign",
	"妈！":  "/sign",
	"排行榜": "/album",
	"图鉴":  "/album",
	"收集册": "/album",
}

// splitCommand separates the first token of a message from its arguments.
// A bot suffix such as "/sign@stampbook_bot" is dropped.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}

	command, args, _ := strings.Cut(text, " ")
	if i := strings.IndexAny(command, "\n\t"); i >= 0 {
		command, args = command[:i], command[i+1:]+" "+args
	}
	if strings.HasPrefix(command, "/") {
		command, _, _ = strings.Cut(command, "@")
	}
	return command, strings.TrimSpace(args)
}

// resolveAlias maps a plain-text message onto the command it stands for.
func resolveAlias(text string) (string, string, bool) {
	command, args := splitCommand(text)
	endpoint, ok := aliases[command]
	return endpoint, args, ok
}

func signCaption(result *models.SignResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s，签到成功！\n", result.UserName)
	fmt.Fprintf(&sb, "好感 +%d（累计 %d）\n", result.Affection, result.AffectionTotal)
	fmt.Fprintf(&sb, "获得印章：%s\n", result.Stamp.ID)
	fmt.Fprintf(&sb, "群内排名：第 %d 名\n", result.Rank)
	fmt.Fprintf(&sb, "今日宜：%s", result.Todo)
	if result.Hitokoto != "" {
		fmt.Fprintf(&sb, "\n\n「%s」", result.Hitokoto)
	}
	return sb.String()
}

func albumCaption(name string, view *models.AlbumView) string {
	if view.Rank == 0 {
		return fmt.Sprintf("%s 的收集册：%d/%d，还没有上榜", name, len(view.Stamps), view.Total)
	}
	return fmt.Sprintf("%s 的收集册：%d/%d，群内排名第 %d 名", name, len(view.Stamps), view.Total, view.Rank)
}
