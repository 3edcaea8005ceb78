// Package foldconst implements the const-string folding pass (§4.1): a
// structural, bottom-up AST rewrite that replaces a binary `+` over two
// string literals with a single literal holding the concatenation.
// Idempotent — running it twice changes nothing the second time, since
// there is nothing left to fold.
package foldconst

import "github.com/cwbudde/go-dws/internal/ast"

// Fold rewrites prog's function and method bodies (and global
// initializers) in place, returning prog for chaining.
func Fold(prog *ast.Program) *ast.Program {
	for _, fn := range prog.Functions {
		foldFunction(fn)
	}
	for _, class := range prog.Classes {
		for _, m := range class.MethodDefs {
			foldFunction(m.Fn)
		}
		for _, p := range class.Properties {
			if p.Init != nil {
				p.Init = foldExpr(p.Init)
			}
		}
	}
	for _, g := range prog.Globals {
		if g.Init != nil {
			g.Init = foldExpr(g.Init)
		}
	}
	return prog
}

func foldFunction(fn *ast.FunctionDecl) {
	if fn.Body != nil {
		foldStatementList(fn.Body)
	}
}

func foldStatementList(list *ast.StatementList) {
	for i, stmt := range list.Statements {
		list.Statements[i] = foldStatement(stmt)
	}
}

func foldStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.StatementList:
		foldStatementList(s)
	case *ast.VarDeclStatement:
		if s.Init != nil {
			s.Init = foldExpr(s.Init)
		}
	case *ast.Assignment:
		s.Value = foldExpr(s.Value)
	case *ast.PropAssignment:
		s.Object = foldExpr(s.Object)
		s.Value = foldExpr(s.Value)
	case *ast.StaticPropAssignment:
		s.Value = foldExpr(s.Value)
	case *ast.IndexAssignment:
		s.Array = foldExpr(s.Array)
		s.Index = foldExpr(s.Index)
		s.Value = foldExpr(s.Value)
	case *ast.ArrayAppend:
		s.Array = foldExpr(s.Array)
		s.Value = foldExpr(s.Value)
	case *ast.ExpressionStatement:
		s.Expr = foldExpr(s.Expr)
	case *ast.If:
		s.Cond = foldExpr(s.Cond)
		foldStatementList(s.Then)
		if s.Else != nil {
			foldStatementList(s.Else)
		}
	case *ast.While:
		s.Cond = foldExpr(s.Cond)
		foldStatementList(s.Body)
	case *ast.ForIn:
		s.Iterable = foldExpr(s.Iterable)
		foldStatementList(s.Body)
	case *ast.Return:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
	case *ast.Println:
		s.Value = foldExpr(s.Value)
	}
	return stmt
}

// foldExpr folds expr bottom-up and returns the (possibly rewritten) node.
func foldExpr(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.BinaryOp:
		e.Left = foldExpr(e.Left)
		e.Right = foldExpr(e.Right)
		if e.Op == "+" {
			left, lok := e.Left.(*ast.StringLiteral)
			right, rok := e.Right.(*ast.StringLiteral)
			if lok && rok {
				return &ast.StringLiteral{Position: e.Position, Value: left.Value + right.Value}
			}
		}
		return e
	case *ast.UnaryOp:
		e.Operand = foldExpr(e.Operand)
		return e
	case *ast.ArrayLiteral:
		for i, el := range e.Elements {
			e.Elements[i] = foldExpr(el)
		}
		return e
	case *ast.RangeLiteral:
		if e.Start != nil {
			e.Start = foldExpr(e.Start)
		}
		e.Stop = foldExpr(e.Stop)
		if e.Step != nil {
			e.Step = foldExpr(e.Step)
		}
		return e
	case *ast.Call:
		for i, a := range e.Args {
			e.Args[i] = foldExpr(a)
		}
		return e
	case *ast.FetchProp:
		e.Object = foldExpr(e.Object)
		return e
	case *ast.MethodCall:
		e.Object = foldExpr(e.Object)
		for i, a := range e.Args {
			e.Args[i] = foldExpr(a)
		}
		return e
	case *ast.StaticMethodCall:
		for i, a := range e.Args {
			e.Args[i] = foldExpr(a)
		}
		return e
	case *ast.IndexFetch:
		e.Array = foldExpr(e.Array)
		e.Index = foldExpr(e.Index)
		return e
	case *ast.New:
		for i, a := range e.Args {
			e.Args[i] = foldExpr(a)
		}
		return e
	default:
		return expr
	}
}
