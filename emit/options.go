package emit

// FileComment holds the fields of the leading block comment of a composed
// file. Empty fields fall back to neutral placeholders so the comment's
// shape stays stable for tooling that parses it.
type FileComment struct {
	// Filename as consumers will see it, e.g. "muGraphics.h".
	Filename string

	// Author name or handle.
	Author string

	// Description is a one-line summary of the library.
	Description string

	// LicensePointer is the short license note; the full text goes in the
	// trailing block. Defaults to a dual MIT/public-domain pointer.
	LicensePointer string

	// Notes is free-form text appended to the comment, verbatim.
	Notes string
}

// Options configures a composition run.
type Options struct {
	// Strict aborts composition on any version conflict instead of emitting
	// a diagnostic comment and proceeding with the first-discovered version.
	Strict bool

	// SuppressVersionDiagnostics drops the per-library version-mismatch
	// diagnostic comments from the output. Conflicts are still collected and
	// returned on the Output.
	SuppressVersionDiagnostics bool

	// Comment fills the leading block comment.
	Comment FileComment

	// License is the full text of the trailing license block. Defaults to
	// DefaultLicense.
	License string
}

// DefaultLicense is the dual MIT/public-domain license text emitted when no
// override is given, in the style single-file C libraries conventionally use.
const DefaultLicense = `------------------------------------------------------------------------------
This software is available under 2 licenses -- choose whichever you prefer.
------------------------------------------------------------------------------
ALTERNATIVE A - MIT License
Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:
The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.
THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
------------------------------------------------------------------------------
ALTERNATIVE B - Public Domain (www.unlicense.org)
This is free and unencumbered software released into the public domain.
Anyone is free to copy, modify, publish, use, compile, sell, or distribute
this software, either in source code form or as a compiled binary, for any
purpose, commercial or non-commercial, and by any means.
In jurisdictions that recognize copyright laws, the author or authors of this
software dedicate any and all copyright interest in the software to the
public domain. We make this dedication for the benefit of the public at large
and to the detriment of our heirs and successors.
THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN
ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
------------------------------------------------------------------------------`
