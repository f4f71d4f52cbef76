/*
Package dynamizer turns static D binding sources into bindings that can be loaded at run time.

Every function declaration whose name starts with the configured prefix (x_ by default) is wrapped
into a version block: the static branch keeps the original declaration, the other branch declares a
function pointer alias and a __gshared variable of that type, to be bound after the shared library
is loaded.

	int x_init(int a, int b);

becomes

	version(Static)
		int x_init(int a, int b);
	else
	{
		private alias fp_x_init = int function(int a, int b);
		__gshared fp_x_init x_init;
	}

and yields the loader entry

	lib.bindSymbol(cast(void**)&x_init, "x_init");

Module declarations are kept and yield an import entry, so the loader entries of many documents can be
pasted as the body of a single loader function.

# Matching

The recognizer is pattern based, not a D parser. At each position it tries, in order: block comment,
line comment, module declaration and prefixed function declaration. Comments are copied verbatim, so
documented or commented out declarations are never rewritten.

# Notes

 1. A declaration stays on one line up to its parameter list, the parameter list itself may span lines.
 2. The parameter list ends at the first ')' followed by ';'. Parameters that themselves hold a ')' followed
    by ';' inside a comment or string are mis-captured.
 3. Line terminators of generated lines follow the first line of the document (LF or CRLF).
 4. The return type may hold block comments opened and closed on the same line.
 5. Generated lines repeat the blanks indenting the declaration line, so a rewritten declaration nested
    in a block keeps its depth.

# Command line

The dynamize command applies the transformation on files and directories:

	go install github.com/ahmetsait/BindingDynamizer/dynamize@latest
	dynamize -o dynamic -r source

The output directory is never scanned for sources, and two sources mapping to the same output file
fail the run before anything is written.

For more details see the cli help:

	dynamize -h
*/
package dynamizer
