package consol

import (
	"fmt"
	"strings"
)

// ParseRules reads elimination rules from their configuration form.
// Each entry looks like "name=srcCompany:srcAccount->tgtCompany:tgtAccount"
// and entries are separated by semicolons.
func ParseRules(spec string) ([]Rule, error) {
	var rules []Rule
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, pair, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("consol: malformed rule %q", entry)
		}
		src, tgt, ok := strings.Cut(pair, "->")
		if !ok {
			return nil, fmt.Errorf("consol: malformed rule pair %q", pair)
		}
		srcCompany, srcAccount, ok := strings.Cut(strings.TrimSpace(src), ":")
		if !ok {
			return nil, fmt.Errorf("consol: malformed rule side %q", src)
		}
		tgtCompany, tgtAccount, ok := strings.Cut(strings.TrimSpace(tgt), ":")
		if !ok {
			return nil, fmt.Errorf("consol: malformed rule side %q", tgt)
		}
		rule := Rule{
			Name:          strings.TrimSpace(name),
			SourceCompany: srcCompany,
			SourceAccount: srcAccount,
			TargetCompany: tgtCompany,
			TargetAccount: tgtAccount,
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
