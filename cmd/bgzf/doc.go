/*Command bgzf stream-compresses standard input into BGZF-framed
  output on standard output.

  Usage: cat foo.txt | bgzf > foo.txt.bgzf

  Any argument prints a short usage message and exits 0 without
  reading stdin.
*/
package main
