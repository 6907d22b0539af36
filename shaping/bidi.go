package shaping

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// paragraphLevel 按首个强方向字符确定段落方向：0 为 LTR，1 为 RTL。
func paragraphLevel(runes []rune) int8 {
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return 0
		case bidi.R, bidi.AL:
			return 1
		}
	}
	return 0
}

// hasRTL reports whether any rune would force a right-to-left run.
func hasRTL(runes []rune) bool {
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL, bidi.RLE, bidi.RLO, bidi.RLI:
			return true
		}
	}
	return false
}

// resolveLevels 为每个字符计算嵌入层级（无显式嵌入的 UBA 规则 W1-W7、N1-N2、I1-I2、L1）。
// 字符类别取自 x/text 的 bidi 属性表。
func resolveLevels(runes []rune, base int8) []int8 {
	n := len(runes)
	classes := make([]bidi.Class, n)
	for i, r := range runes {
		props, _ := bidi.LookupRune(r)
		classes[i] = props.Class()
	}
	sos := bidi.L
	if base%2 == 1 {
		sos = bidi.R
	}

	// W1: NSM 继承前一个字符的类别。
	prev := sos
	for i, c := range classes {
		if c == bidi.NSM {
			classes[i] = prev
		} else {
			prev = classes[i]
		}
	}
	// W2/W3: AL 之后的 EN 变为 AN，随后 AL 视为 R。
	strong := sos
	for i, c := range classes {
		switch c {
		case bidi.L, bidi.R, bidi.AL:
			strong = c
		case bidi.EN:
			if strong == bidi.AL {
				classes[i] = bidi.AN
			}
		}
	}
	for i, c := range classes {
		if c == bidi.AL {
			classes[i] = bidi.R
		}
	}
	// W4: 两个同类数字之间的单个分隔符并入数字。
	for i := 1; i+1 < n; i++ {
		before, after := classes[i-1], classes[i+1]
		switch classes[i] {
		case bidi.ES:
			if before == bidi.EN && after == bidi.EN {
				classes[i] = bidi.EN
			}
		case bidi.CS:
			if before == after && (before == bidi.EN || before == bidi.AN) {
				classes[i] = before
			}
		}
	}
	// W5: 与 EN 相邻的 ET 序列变为 EN。
	for i := 0; i < n; {
		if classes[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < n && classes[j] == bidi.ET {
			j++
		}
		if (i > 0 && classes[i-1] == bidi.EN) || (j < n && classes[j] == bidi.EN) {
			for k := i; k < j; k++ {
				classes[k] = bidi.EN
			}
		}
		i = j
	}
	// W6/W7: 剩余分隔符为中性；强方向为 L 时 EN 视为 L。
	strong = sos
	for i, c := range classes {
		switch c {
		case bidi.ES, bidi.ET, bidi.CS:
			classes[i] = bidi.ON
		case bidi.L, bidi.R:
			strong = c
		case bidi.EN:
			if strong == bidi.L {
				classes[i] = bidi.L
			}
		}
	}
	// N1/N2: 中性序列两侧方向相同（EN/AN 按 R 计）时取该方向，否则取段落方向。
	eos := sos
	for i := 0; i < n; {
		if !neutral(classes[i]) {
			i++
			continue
		}
		j := i
		for j < n && neutral(classes[j]) {
			j++
		}
		left, right := sos, eos
		if i > 0 {
			left = direction(classes[i-1])
		}
		if j < n {
			right = direction(classes[j])
		}
		resolved := sos
		if left == right {
			resolved = left
		}
		for k := i; k < j; k++ {
			classes[k] = resolved
		}
		i = j
	}

	levels := make([]int8, n)
	for i, c := range classes {
		lvl := base
		switch {
		case base%2 == 0 && c == bidi.R:
			lvl++
		case base%2 == 0 && (c == bidi.AN || c == bidi.EN):
			lvl += 2
		case base%2 == 1 && (c == bidi.L || c == bidi.EN || c == bidi.AN):
			lvl++
		}
		levels[i] = lvl
	}
	// L1: 行尾空白回到段落层级。
	for i := n - 1; i >= 0 && unicode.IsSpace(runes[i]); i-- {
		levels[i] = base
	}
	return levels
}

func neutral(c bidi.Class) bool {
	switch c {
	case bidi.B, bidi.S, bidi.WS, bidi.ON, bidi.BN,
		bidi.LRE, bidi.LRO, bidi.RLE, bidi.RLO, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

// direction 把已解析的类别折算为 N1 使用的强方向。
func direction(c bidi.Class) bidi.Class {
	if c == bidi.L {
		return bidi.L
	}
	return bidi.R
}

// mirror 对奇数层级中的括号做镜像（规则 L4）。
func mirror(r rune) rune {
	props, _ := bidi.LookupRune(r)
	if !props.IsBracket() {
		return r
	}
	for _, m := range bidi.ReverseString(string(r)) {
		return m
	}
	return r
}

// reorder 执行规则 L2：从最高层级到最低奇数层级，依次反转连续的高层级片段。
func reorder(runes []rune, levels []int8) []rune {
	out := make([]rune, len(runes))
	copy(out, runes)
	lv := make([]int8, len(levels))
	copy(lv, levels)

	var highest int8
	lowestOdd := int8(127)
	for i, l := range lv {
		if l > highest {
			highest = l
		}
		if l%2 == 1 {
			if l < lowestOdd {
				lowestOdd = l
			}
			out[i] = mirror(out[i])
		}
	}
	if lowestOdd == 127 {
		return out
	}

	for level := highest; level >= lowestOdd; level-- {
		for i := 0; i < len(out); {
			if lv[i] < level {
				i++
				continue
			}
			j := i
			for j < len(out) && lv[j] >= level {
				j++
			}
			reverseClusters(out[i:j], lv[i:j])
			i = j
		}
	}
	return out
}

// reverseClusters 反转 runes，但每个基字符后的组合标记仍紧跟在它之后，
// 与 bidi.ReverseString 的处理一致。
func reverseClusters(runes []rune, levels []int8) {
	type cluster struct{ start, end int }
	var clusters []cluster
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && unicode.Is(unicode.Mn, runes[j]) {
			j++
		}
		clusters = append(clusters, cluster{i, j})
		i = j
	}
	rs := make([]rune, 0, len(runes))
	ls := make([]int8, 0, len(levels))
	for k := len(clusters) - 1; k >= 0; k-- {
		c := clusters[k]
		rs = append(rs, runes[c.start:c.end]...)
		ls = append(ls, levels[c.start:c.end]...)
	}
	copy(runes, rs)
	copy(levels, ls)
}
