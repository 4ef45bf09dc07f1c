/*
Package editor orchestrates batch edits of control stream sections.

	             +-----------+
	             |  Editor   |
	             | (batch)   |
	             +-----+-----+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	| Resolve |   |  fold   |   |  route  |
	| (files) |   | (splice)|   | (output)|
	+---------+   +---------+   +---------+

🎯 Purpose:
- Resolves target files (explicit list, glob discovery, filters)
- Applies an ordered list of section edits per file
- Routes results to disk (with backup) or back to the caller

🔄 Flow:
 1. Resolve expands a FileQuery into concrete paths
 2. Each file is read once into a Document
 3. The EditSpec is folded left-to-right over the Document; every edit
    re-locates its section in the previous edit's output
 4. The final Document is written (overwrite with backup, explicit path)
    or returned as text

⚡ Key Responsibilities:
- Argument validation before any I/O
- Strictly sequential per-file edit ordering
- Backup-before-overwrite safety
- Fail-fast batch semantics (async mode cancels in-flight siblings)

🤝 Interfaces:
- SpecParser: format-specific edit-spec parsing (YAML, HCL)

📝 Design Philosophy:
The fold over the Document is the load-bearing behavior: later section
lookups must see earlier edits' effects, because an edit can shift line
numbers or introduce the very section a later edit targets. The editor
therefore never reorders or batches edits across sections.
*/
package editor
