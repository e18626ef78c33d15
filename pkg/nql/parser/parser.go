// Package parser implements NQL's recursive-descent, single-token-lookahead
// parser, producing the ast.Statement trees the validator and executors
// consume.
package parser

import (
	"fmt"

	"github.com/Nokado04/NQL-Project/pkg/nql/ast"
	"github.com/Nokado04/NQL-Project/pkg/nql/lexer"
	"github.com/Nokado04/NQL-Project/pkg/types"
)

// precedence levels for the expression grammar in spec.md §4.5.
const (
	_ int = iota
	precOr
	precAnd
	precCompare
	precAdd
	precMul
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:    precOr,
	lexer.AND:   precAnd,
	lexer.EQ:    precCompare,
	lexer.NEQ:   precCompare,
	lexer.LT:    precCompare,
	lexer.GT:    precCompare,
	lexer.LTE:   precCompare,
	lexer.GTE:   precCompare,
	lexer.PLUS:  precAdd,
	lexer.MINUS: precAdd,
	lexer.STAR:  precMul,
	lexer.SLASH: precMul,
}

// Error is a structured parse failure: a message and the position of the
// offending token. The parser stops at the first error and performs no
// recovery, per spec.md §4.5.
type Error struct {
	Message string
	Pos     lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}

// Parser turns a token stream into a single ast.Statement.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over input, primed with the first two tokens.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// expectPeek advances past the peek token if it has the given type, else
// returns a structured error without advancing.
func (p *Parser) expectPeek(t lexer.TokenType) error {
	if p.peek.Type != t {
		return p.errorf(p.peek.Pos, "expected %s, got %s (%q)", t, p.peek.Type, p.peek.Literal)
	}
	p.nextToken()
	return nil
}

// Parse consumes one statement (optionally terminated by `;`) and returns
// its AST, or a parse Error.
func Parse(input string) (ast.Statement, error) {
	p := New(input)
	return p.ParseStatement()
}

// ParseStatement dispatches on the leading keyword per spec.md §4.5.
func (p *Parser) ParseStatement() (ast.Statement, error) {
	if p.cur.Type == lexer.ILLEGAL {
		return nil, p.errorf(p.cur.Pos, "unrecognized input %q", p.cur.Literal)
	}

	var stmt ast.Statement
	var err error

	switch p.cur.Type {
	case lexer.SELECT:
		stmt, err = p.parseSelect()
	case lexer.INSERT:
		stmt, err = p.parseInsert()
	case lexer.UPDATE:
		stmt, err = p.parseUpdate()
	case lexer.DELETE:
		stmt, err = p.parseDelete()
	case lexer.CREATE:
		stmt, err = p.parseCreateTable()
	case lexer.ALTER:
		stmt, err = p.parseAlterTable()
	case lexer.DROP:
		stmt, err = p.parseDropTable()
	case lexer.DESCRIBE:
		stmt, err = p.parseDescribe()
	default:
		return nil, p.errorf(p.cur.Pos, "unexpected token %s (%q) at start of statement", p.cur.Type, p.cur.Literal)
	}
	if err != nil {
		return nil, err
	}

	if p.peek.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	return stmt, nil
}

func (p *Parser) parseIdent() (string, error) {
	if p.peek.Type != lexer.IDENT {
		return "", p.errorf(p.peek.Pos, "expected identifier, got %s (%q)", p.peek.Type, p.peek.Literal)
	}
	p.nextToken()
	return p.cur.Literal, nil
}

// parseSelect: SELECT column_list FROM ident [ WHERE expr ]
func (p *Parser) parseSelect() (*ast.SelectStmt, error) {
	cols, err := p.parseSelectColumnList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.SelectStmt{Columns: cols, From: name}
	if p.peek.Type == lexer.WHERE {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseSelectColumnList() ([]ast.SelectColumn, error) {
	if p.peek.Type == lexer.STAR {
		p.nextToken()
		return []ast.SelectColumn{{Star: true}}, nil
	}
	if p.peek.Type == lexer.COUNT {
		p.nextToken()
		if err := p.expectPeek(lexer.LPAREN); err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.STAR); err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.RPAREN); err != nil {
			return nil, err
		}
		return []ast.SelectColumn{{CountAll: true}}, nil
	}

	var cols []ast.SelectColumn
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	cols = append(cols, ast.SelectColumn{Name: name})
	for p.peek.Type == lexer.COMMA {
		p.nextToken()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		cols = append(cols, ast.SelectColumn{Name: name})
	}
	return cols, nil
}

// parseInsert: INSERT INTO ident [ ( ident {, ident} ) ] VALUES "(" expr {,expr} ")" {, "(" ... ")"}
func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	if err := p.expectPeek(lexer.INTO); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.InsertStmt{TableName: name}

	if p.peek.Type == lexer.LPAREN {
		p.nextToken()
		col, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)
		for p.peek.Type == lexer.COMMA {
			p.nextToken()
			col, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if err := p.expectPeek(lexer.RPAREN); err != nil {
			return nil, err
		}
	}

	if err := p.expectPeek(lexer.VALUES); err != nil {
		return nil, err
	}

	row, err := p.parseValueTuple()
	if err != nil {
		return nil, err
	}
	stmt.Values = append(stmt.Values, row)
	for p.peek.Type == lexer.COMMA {
		p.nextToken()
		row, err := p.parseValueTuple()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, row)
	}

	return stmt, nil
}

func (p *Parser) parseValueTuple() ([]ast.Expression, error) {
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, err
	}
	p.nextToken()
	var values []ast.Expression
	expr, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	values = append(values, expr)
	for p.peek.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()
		expr, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		values = append(values, expr)
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	return values, nil
}

// parseUpdate: UPDATE ident SET assign {, assign} [ WHERE expr ]
func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.SET); err != nil {
		return nil, err
	}

	stmt := &ast.UpdateStmt{TableName: name}
	assign, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	stmt.Assignments = append(stmt.Assignments, assign)
	for p.peek.Type == lexer.COMMA {
		p.nextToken()
		assign, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, assign)
	}

	if p.peek.Type == lexer.WHERE {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseAssignment() (ast.Assignment, error) {
	col, err := p.parseIdent()
	if err != nil {
		return ast.Assignment{}, err
	}
	if err := p.expectPeek(lexer.EQ); err != nil {
		return ast.Assignment{}, err
	}
	p.nextToken()
	val, err := p.parseExpression(precOr)
	if err != nil {
		return ast.Assignment{}, err
	}
	return ast.Assignment{Column: col, Value: val}, nil
}

// parseDelete: DELETE FROM ident [ WHERE expr ]
func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	if err := p.expectPeek(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeleteStmt{TableName: name}
	if p.peek.Type == lexer.WHERE {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

// parseCreateTable: CREATE TABLE ident [ ( col_def {, col_def} ) ]
func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	if err := p.expectPeek(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.CreateTableStmt{TableName: name}

	if p.peek.Type == lexer.LPAREN {
		p.nextToken()
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)
		for p.peek.Type == lexer.COMMA {
			p.nextToken()
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if err := p.expectPeek(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseColumnDef: ident data_type { PRIMARY KEY | NOT NULL }
func (p *Parser) parseColumnDef() (ast.ColumnDef, error) {
	name, err := p.parseIdent()
	if err != nil {
		return ast.ColumnDef{}, err
	}
	col := ast.ColumnDef{Name: name}

	switch p.peek.Type {
	case lexer.INT_TYPE:
		p.nextToken()
		col.Type = types.TypeInt
	case lexer.FLOAT_TYPE:
		p.nextToken()
		col.Type = types.TypeFloat
	case lexer.BOOL_TYPE:
		p.nextToken()
		col.Type = types.TypeBool
	case lexer.STRING_TYPE:
		p.nextToken()
		col.Type = types.TypeString
		if p.peek.Type == lexer.LPAREN {
			p.nextToken()
			if p.peek.Type != lexer.INT {
				return ast.ColumnDef{}, p.errorf(p.peek.Pos, "expected integer length, got %s", p.peek.Type)
			}
			p.nextToken()
			n, err := parseIntLiteral(p.cur.Literal)
			if err != nil {
				return ast.ColumnDef{}, p.errorf(p.cur.Pos, "invalid string length %q", p.cur.Literal)
			}
			col.MaxLength = int(n)
			if err := p.expectPeek(lexer.RPAREN); err != nil {
				return ast.ColumnDef{}, err
			}
		}
	default:
		return ast.ColumnDef{}, p.errorf(p.peek.Pos, "expected data type, got %s (%q)", p.peek.Type, p.peek.Literal)
	}

	for {
		switch p.peek.Type {
		case lexer.PRIMARY:
			p.nextToken()
			if err := p.expectPeek(lexer.KEY); err != nil {
				return ast.ColumnDef{}, err
			}
			col.PrimaryKey = true
		case lexer.NOT:
			p.nextToken()
			if err := p.expectPeek(lexer.NULL_KW); err != nil {
				return ast.ColumnDef{}, err
			}
			col.NotNull = true
		default:
			return col, nil
		}
	}
}

// parseAlterTable: ALTER TABLE ident ADD COLUMN col_def | ALTER TABLE ident DROP COLUMN ident
func (p *Parser) parseAlterTable() (*ast.AlterTableStmt, error) {
	if err := p.expectPeek(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	switch p.peek.Type {
	case lexer.ADD:
		p.nextToken()
		if err := p.expectPeek(lexer.COLUMN); err != nil {
			return nil, err
		}
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return &ast.AlterTableStmt{TableName: name, Kind: ast.AlterAddColumn, AddColumn: &col}, nil
	case lexer.DROP:
		p.nextToken()
		if err := p.expectPeek(lexer.COLUMN); err != nil {
			return nil, err
		}
		colName, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.AlterTableStmt{TableName: name, Kind: ast.AlterDropColumn, DropColumn: colName}, nil
	default:
		return nil, p.errorf(p.peek.Pos, "expected ADD or DROP, got %s (%q)", p.peek.Type, p.peek.Literal)
	}
}

// parseDropTable: DROP TABLE ident
func (p *Parser) parseDropTable() (*ast.DropTableStmt, error) {
	if err := p.expectPeek(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.DropTableStmt{TableName: name}, nil
}

// parseDescribe: DESCRIBE ident
func (p *Parser) parseDescribe() (*ast.DescribeStmt, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.DescribeStmt{TableName: name}, nil
}

// parseExpression implements precedence climbing over the levels in
// spec.md §4.5 (OR < AND < comparisons < +- < */), starting from p.cur
// already positioned on the first token of the expression.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, ok := precedences[p.peek.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.peek.Type
		p.nextToken()
		p.nextToken()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur.Type {
	case lexer.MINUS, lexer.NOT:
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Right: right}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.cur.Type {
	case lexer.INT:
		v, err := types.ParseLiteral(p.cur.Literal, types.TypeInt)
		if err != nil {
			return nil, p.errorf(p.cur.Pos, "invalid integer literal %q", p.cur.Literal)
		}
		return &ast.Literal{Value: v}, nil
	case lexer.FLOAT:
		v, err := types.ParseLiteral(p.cur.Literal, types.TypeFloat)
		if err != nil {
			return nil, p.errorf(p.cur.Pos, "invalid float literal %q", p.cur.Literal)
		}
		return &ast.Literal{Value: v}, nil
	case lexer.STRING:
		return &ast.Literal{Value: types.NewString(p.cur.Literal)}, nil
	case lexer.TRUE_KW:
		return &ast.Literal{Value: types.NewBool(true)}, nil
	case lexer.FALSE_KW:
		return &ast.Literal{Value: types.NewBool(false)}, nil
	case lexer.NULL_KW:
		return &ast.Literal{Value: types.NewNull()}, nil
	case lexer.IDENT:
		return &ast.ColumnRef{Name: p.cur.Literal}, nil
	case lexer.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf(p.cur.Pos, "unexpected token %s (%q) in expression", p.cur.Type, p.cur.Literal)
	}
}

func parseIntLiteral(text string) (int64, error) {
	var n int64
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid digit %q", c)
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}
