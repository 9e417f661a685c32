package phpast

// CloneHeader copies a statement that can be shared between files when a
// file is split: declare directives, imports, comments, and blank lines.
// Namespaces are copied without their statements. It returns nil for any
// other statement
func CloneHeader(stmt Stmt) Stmt {
	switch s := stmt.(type) {
	case *Declare:
		return &Declare{Directive: s.Directive}
	case *Namespace:
		return &Namespace{Name: s.Name, Braced: s.Braced}
	case *Use:
		uses := make([]*UseClause, len(s.Uses))
		for i, clause := range s.Uses {
			uses[i] = &UseClause{Name: clause.Name, Alias: clause.Alias}
		}
		return &Use{Kind: s.Kind, Uses: uses}
	case *Comment:
		return &Comment{Text: s.Text}
	case *Blank:
		return &Blank{}
	}
	return nil
}
