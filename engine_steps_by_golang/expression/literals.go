package expression

import (
	"regexp/syntax"
)

// requiredLiterals trích các literal BẮT BUỘC phải có mặt trong input để
// pattern khớp được. Chỉ đi theo các nhánh chắc chắn thực thi (concat,
// capture, plus); alternation và phần optional bị bỏ qua để prefilter
// không bao giờ loại nhầm một definition có thể khớp.
func requiredLiterals(pattern string) []string {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil
	}
	var out []string
	collectRequired(re, &out)
	return out
}

func collectRequired(re *syntax.Regexp, out *[]string) {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) > 0 {
			*out = append(*out, string(re.Rune))
		}
	case syntax.OpConcat, syntax.OpCapture, syntax.OpPlus:
		for _, sub := range re.Sub {
			collectRequired(sub, out)
		}
	default:
		// OpAlternate/OpStar/OpQuest/OpRepeat{min=0}/classes: không bắt buộc
	}
}
