// Package title derives display titles for playlist entries.
//
// Without lookups the title is the file name stem. With lookups enabled the
// Resolver runs "<mame> -listfull <stem>" and takes the quoted description
// from its output. Every lookup failure (missing binary, non-zero exit,
// unparsable output) falls back to the stem and is only logged at debug
// level; callers never see an error. Successful lookups can be remembered in
// a Cache so repeated runs skip the subprocess.
package title
