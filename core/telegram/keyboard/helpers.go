package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button carrying a raw callback token.
// Tokens are sent verbatim as callback data, without Telebot's
// "\f<unique>|<payload>" encoding, so handlers see exactly what was built.
type InlineBtn struct {
	Text  string
	Token string
}

// InlineRows builds an inline keyboard from rows of InlineBtn.
func InlineRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Token}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// Chunk splits a flat list of buttons into rows with up to n buttons
// per row. If n <= 1, every button gets its own row.
func Chunk(buttons []InlineBtn, n int) [][]InlineBtn {
	if n <= 1 {
		out := make([][]InlineBtn, 0, len(buttons))
		for _, b := range buttons {
			out = append(out, []InlineBtn{b})
		}
		return out
	}
	var rows [][]InlineBtn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}

