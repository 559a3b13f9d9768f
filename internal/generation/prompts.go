package generation

import (
	"fmt"
	"strings"

	"chatbuff.app/backend/internal/model"
)

const replySystemPrompt = "你是一个专业的对话辅助助手，帮助用户在社交场合展现智慧。"

const quoteSystemPrompt = "你是一个专业的社交对话助手。"

func buildReplyPrompt(recentContext, lastUtterance string) string {
	return fmt.Sprintf(`你是一个实时对话辅助助手。用户正在与他人对话，你需要帮助用户提供有深度的回应。

当前对话上下文：
%s

对方最新说的话："%s"

请生成 3 个不同类型的回应建议：
1. [深度] 一个展现思考深度的回应，可引用名人名言或哲理
2. [幽默] 一个风趣幽默但不失礼貌的回应
3. [追问] 一个有启发性的追问，推动对话深入

要求：
- 每个建议不超过 30 字
- 自然流畅，符合口语表达
- 与当前话题紧密相关

格式：每行一个建议，以[类型]开头`, recentContext, lastUtterance)
}

func buildBranchPrompt(parentContent string) string {
	return fmt.Sprintf(`围绕下面这个想法，生成 3 个不同方向的延伸：

"%s"

1. 一个理性分析的延伸，深入其成因或影响
2. 一个反转或幽默的延伸，换个出人意料的角度
3. 一个行动导向的延伸，提出可以做的下一步

要求：每条不超过 30 字，每条一行，不需要编号。`, parentContent)
}

func buildQuotePrompt(userText string, quotes []model.Quote) string {
	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		lines = append(lines, fmt.Sprintf("- %s (出自《%s》，适用场景：%s)", q.Quote, q.Source, q.Context))
	}

	return fmt.Sprintf(`你是一个社交对话助手，帮助用户在聊天时展现智慧和幽默。

用户正在说："%s"

以下是一些相关的金句供参考：
%s

请给出 3 条回复建议：
1. 一条幽默风趣的回复（可以结合金句改编）
2. 一条展现深度的回复（引用金句或哲理）
3. 一条温暖真诚的回复

要求：
- 简短有力，不超过 30 字
- 既要引用恰当，又要展现个人智慧
- 避免生硬堆砌，要自然流畅

直接返回 3 条建议，每条一行，不需要编号。`, userText, strings.Join(lines, "\n"))
}
