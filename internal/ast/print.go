package ast

import "fmt"

// Print recursively prints n and its subtree to stdout, indenting one level
// per recursive call. Mirrors ir.Node.Print from the teacher: depth-first,
// every node on its own line, no attempt at re-parseable output (spec §8:
// "the debug syntax differs from the source syntax").
func (n *Node) Print(depth int) {
	if n == nil {
		fmt.Printf("%*c%s\n", depth<<1, ' ', "<nil>")
		return
	}
	fmt.Printf("%*c%s\n", depth<<1, ' ', n.describe())

	switch n.Kind {
	case Add, Sub, Mul, Div, Eq, Neq, Lt, Lte, Assign:
		n.Lhs.Print(depth + 1)
		n.Rhs.Print(depth + 1)
	case Neg, Addr, Deref, ExprStmt:
		n.Lhs.Print(depth + 1)
	case If:
		n.Cond.Print(depth + 1)
		n.Then.Print(depth + 1)
		if n.Els != nil {
			n.Els.Print(depth + 1)
		}
	case Loop:
		if n.Init != nil {
			n.Init.Print(depth + 1)
		}
		if n.Cond != nil {
			n.Cond.Print(depth + 1)
		}
		if n.Inc != nil {
			n.Inc.Print(depth + 1)
		}
		n.Then.Print(depth + 1)
	case Return:
		n.Lhs.Print(depth + 1)
	case Block:
		for c := n.Body; c != nil; c = c.Next {
			c.Print(depth + 1)
		}
	case FnCall:
		for c := n.Args; c != nil; c = c.Next {
			c.Print(depth + 1)
		}
	}
}

// describe renders a single-line summary of n, including the data that
// distinguishes its kind (spec §3: Num.val, Var.obj, FnCall.name).
func (n *Node) describe() string {
	switch n.Kind {
	case Num:
		return fmt.Sprintf("%s %d", n.Kind, n.Val)
	case Var:
		name := "?"
		if n.Obj != nil {
			name = n.Obj.Name
		}
		return fmt.Sprintf("%s %q", n.Kind, name)
	case FnCall:
		return fmt.Sprintf("%s %q", n.Kind, n.FnName)
	default:
		return n.Kind.String()
	}
}
