package funcs

import (
	"github.com/aadamsx/josson/internal/node"
	"golang.org/x/crypto/bcrypt"
)

// registerCryptoFuncs registers hash()/verify(), the bcrypt-backed
// counterpart to the bearer-token signing in internal/transport/auth
// (SPEC_FULL.md's domain stack entry for golang.org/x/crypto/bcrypt).
func registerCryptoFuncs(c Catalog) {
	c["hash"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		sum, err := bcrypt.GenerateFromPassword([]byte(node.AsText(cur)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		return node.NewText(string(sum)), nil
	}
	c["verify"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		if len(args) < 1 {
			return node.NewBool(false), nil
		}
		err := bcrypt.CompareHashAndPassword([]byte(node.AsText(cur)), []byte(node.AsText(args[0])))
		return node.NewBool(err == nil), nil
	}
}
