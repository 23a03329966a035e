// Package filter parses the grid filter language into squirrel predicates.
//
// A filter narrows a grid before DataTables search and ordering apply, e.g.
//
//	department = 'Sales' and (id > 10 or email ~ 'example.org')
//
// Identifiers are column display names and are resolved through a Resolver,
// so a filter can only reach columns the grid exposes. Values are always
// bound as query arguments.
//
// Grammar
//
//	expression  : term ( "or" term )* ;
//	term        : factor ( "and" factor )* ;
//
//	factor      : equality
//	            | "(" expression ")" ;
//
//	equality    : IDENTIFIER ( "=" | "!=" | "<>" | "<" | "<=" | ">" | ">=" ) value
//	            | IDENTIFIER ( "~" | "!~" ) STRING ;
//
//	value       : STRING | NUMBER | BOOLEAN | NULL ;
//
//	IDENTIFIER  : [a-zA-Z_][a-zA-Z0-9_]* ( "." [a-zA-Z0-9_]+ )* ;
//	STRING      : "'" (.*?) "'" | "\"" (.*?) "\"" ;
//	NUMBER      : "-"? [0-9]+ ( "." [0-9]+ )? ;
//	BOOLEAN     : "true" | "false" ;
//	NULL        : "null" ;
//
// "~" is a contains match (LIKE '%value%'), "!~" its negation. "= null" and
// "!= null" become IS NULL and IS NOT NULL.
package filter
