package shaping

import "unicode"

// forms 记录一个字母的四种呈现形式；0 表示该形式不存在。
// 只有 final 的字母（如 alef、dal、reh、waw）只能与前一个字母相连。
type forms struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
}

// dual reports whether the letter can also connect to the following letter.
func (f forms) dual() bool { return f.initial != 0 && f.medial != 0 }

// joinsPrev reports whether the letter can connect to the preceding one.
func (f forms) joinsPrev() bool { return f.final != 0 }

const (
	lam     = 'ل'
	tatweel = 'ـ'
)

var letterForms = map[rune]forms{
	'ء': {0xFE80, 0, 0, 0},
	'آ': {0xFE81, 0xFE82, 0, 0},
	'أ': {0xFE83, 0xFE84, 0, 0},
	'ؤ': {0xFE85, 0xFE86, 0, 0},
	'إ': {0xFE87, 0xFE88, 0, 0},
	'ئ': {0xFE89, 0xFE8A, 0xFE8B, 0xFE8C},
	'ا': {0xFE8D, 0xFE8E, 0, 0},
	'ب': {0xFE8F, 0xFE90, 0xFE91, 0xFE92},
	'ة': {0xFE93, 0xFE94, 0, 0},
	'ت': {0xFE95, 0xFE96, 0xFE97, 0xFE98},
	'ث': {0xFE99, 0xFE9A, 0xFE9B, 0xFE9C},
	'ج': {0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0},
	'ح': {0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4},
	'خ': {0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8},
	'د': {0xFEA9, 0xFEAA, 0, 0},
	'ذ': {0xFEAB, 0xFEAC, 0, 0},
	'ر': {0xFEAD, 0xFEAE, 0, 0},
	'ز': {0xFEAF, 0xFEB0, 0, 0},
	'س': {0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4},
	'ش': {0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8},
	'ص': {0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC},
	'ض': {0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0},
	'ط': {0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4},
	'ظ': {0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8},
	'ع': {0xFEC9, 0xFECA, 0xFECB, 0xFECC},
	'غ': {0xFECD, 0xFECE, 0xFECF, 0xFED0},
	'ـ': {0x0640, 0x0640, 0x0640, 0x0640},
	'ف': {0xFED1, 0xFED2, 0xFED3, 0xFED4},
	'ق': {0xFED5, 0xFED6, 0xFED7, 0xFED8},
	'ك': {0xFED9, 0xFEDA, 0xFEDB, 0xFEDC},
	'ل': {0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0},
	'م': {0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4},
	'ن': {0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8},
	'ه': {0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC},
	'و': {0xFEED, 0xFEEE, 0, 0},
	'ى': {0xFEEF, 0xFEF0, 0, 0},
	'ي': {0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4},
	// Persian / Urdu letters from Presentation Forms-A.
	'پ': {0xFB56, 0xFB57, 0xFB58, 0xFB59},
	'چ': {0xFB7A, 0xFB7B, 0xFB7C, 0xFB7D},
	'ژ': {0xFB8A, 0xFB8B, 0, 0},
	'ک': {0xFB8E, 0xFB8F, 0xFB90, 0xFB91},
	'گ': {0xFB92, 0xFB93, 0xFB94, 0xFB95},
	'ی': {0xFBFC, 0xFBFD, 0xFBFE, 0xFBFF},
}

// lamAlef maps the alef following a lam to the ligature's {isolated, final} forms.
var lamAlef = map[rune][2]rune{
	'آ': {0xFEF5, 0xFEF6},
	'أ': {0xFEF7, 0xFEF8},
	'إ': {0xFEF9, 0xFEFA},
	'ا': {0xFEFB, 0xFEFC},
}

// transparent 标记（harakat 等非间距符号）不参与连写判断。
func transparent(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// reshape 把逻辑顺序的阿拉伯字母替换为上下文相关的呈现形式，仍保持逻辑顺序。
func reshape(in []rune) []rune {
	out := make([]rune, 0, len(in))
	prevConnects := false
	for i := 0; i < len(in); i++ {
		r := in[i]
		if transparent(r) {
			out = append(out, r)
			continue
		}
		if r == lam {
			// lam 与 alef 之间的 harakat 不影响连字，保留在连字之后。
			if lig, ok := lamAlef[nextLetter(in, i)]; ok {
				if prevConnects {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				j := i + 1
				for transparent(in[j]) {
					j++
				}
				out = append(out, in[i+1:j]...)
				prevConnects = false
				i = j
				continue
			}
		}
		f, ok := letterForms[r]
		if !ok {
			out = append(out, r)
			prevConnects = false
			continue
		}

		joinPrev := prevConnects && f.joinsPrev()
		joinNext := false
		if f.dual() {
			if next, ok := letterForms[nextLetter(in, i)]; ok && next.joinsPrev() {
				joinNext = true
			}
		}
		switch {
		case joinPrev && joinNext:
			out = append(out, f.medial)
		case joinPrev:
			out = append(out, f.final)
		case joinNext:
			out = append(out, f.initial)
		default:
			out = append(out, f.isolated)
		}
		prevConnects = f.dual()
	}
	return out
}

// nextLetter returns the next non-transparent rune after i, or 0.
func nextLetter(in []rune, i int) rune {
	for j := i + 1; j < len(in); j++ {
		if !transparent(in[j]) {
			return in[j]
		}
	}
	return 0
}
