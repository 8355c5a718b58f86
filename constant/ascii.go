package constant

import _ "embed"

// Banner is printed on top of the root command's help.
//
//go:embed ascii.txt
var Banner string
