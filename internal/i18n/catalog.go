package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLanguage is the fallback language every namespace must define.
const BaseLanguage = "en"

// Namespace names a group of catalogs sharing one language set.
type Namespace string

const (
	NamespaceQuiz Namespace = "quiz"
	NamespaceApp  Namespace = "app"
)

// Direction is the writing direction of a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Direction Direction         `yaml:"direction"`
	Messages  map[string]string `yaml:"messages"`
}

// Catalog holds the messages of one namespace for every language it offers.
type Catalog struct {
	namespace Namespace
	languages []string
	messages  map[string]map[string]string
	direction map[string]Direction
	matcher   language.Matcher
	tags      []language.Tag
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var (
	loadOnce sync.Once
	embedded map[Namespace]*Catalog
)

func mustLoadEmbedded() map[Namespace]*Catalog {
	loadOnce.Do(func() {
		embedded = make(map[Namespace]*Catalog)
		for _, ns := range []Namespace{NamespaceQuiz, NamespaceApp} {
			c, err := Load(embeddedFS, ns)
			if err != nil {
				panic(err)
			}
			embedded[ns] = c
		}
	})
	return embedded
}

// Quiz returns the embedded onboarding catalog.
func Quiz() *Catalog {
	return mustLoadEmbedded()[NamespaceQuiz]
}

// App returns the embedded interface catalog.
func App() *Catalog {
	return mustLoadEmbedded()[NamespaceApp]
}

// Load reads locales/<namespace>/<lang>.yaml files from fsys.
func Load(fsys fs.FS, ns Namespace) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join("locales", string(ns), "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob %s catalogs: %w", ns, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found for namespace %q", ns)
	}
	sort.Strings(paths)

	c := &Catalog{
		namespace: ns,
		messages:  make(map[string]map[string]string),
		direction: make(map[string]Direction),
	}

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}

	if _, ok := c.messages[BaseLanguage]; !ok {
		return nil, fmt.Errorf("namespace %q: base language %s is not defined", ns, BaseLanguage)
	}

	sort.Strings(c.languages)
	// The base language goes first so the matcher falls back to it.
	c.tags = []language.Tag{language.Make(BaseLanguage)}
	for _, lang := range c.languages {
		if lang != BaseLanguage {
			c.tags = append(c.tags, language.Make(lang))
		}
	}
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	langFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	lang := strings.TrimSpace(file.Locale)
	if lang == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if lang != langFromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, lang, langFromPath)
	}
	if Namespace(file.Namespace) != c.namespace {
		return fmt.Errorf("catalog %s: namespace %q must be %q", p, file.Namespace, c.namespace)
	}
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("catalog %s: invalid locale %q: %w", p, lang, err)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[key] = value
	}

	dir := file.Direction
	switch dir {
	case "":
		dir = LTR
	case LTR, RTL:
	default:
		return fmt.Errorf("catalog %s: unknown direction %q", p, dir)
	}

	c.languages = append(c.languages, lang)
	c.messages[lang] = messages
	c.direction[lang] = dir
	return nil
}

// Namespace returns the catalog namespace.
func (c *Catalog) Namespace() Namespace {
	return c.namespace
}

// Languages returns the offered language codes, sorted.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Supports reports whether lang is offered.
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// Match returns the offered language closest to an arbitrary BCP 47 tag or
// Accept-Language style list, defaulting to English.
func (c *Catalog) Match(tags ...string) string {
	var desired []language.Tag
	for _, t := range tags {
		parsed, _, err := language.ParseAcceptLanguage(t)
		if err != nil {
			continue
		}
		desired = append(desired, parsed...)
	}
	if len(desired) == 0 {
		return BaseLanguage
	}
	_, idx, conf := c.matcher.Match(desired...)
	if conf == language.No {
		return BaseLanguage
	}
	base, _ := c.tags[idx].Base()
	return base.String()
}

// Message returns the message for key in lang, falling back to English. It
// reports false when neither defines the key.
func (c *Catalog) Message(lang, key string) (string, bool) {
	if msg, ok := c.messages[lang][key]; ok {
		return msg, true
	}
	msg, ok := c.messages[BaseLanguage][key]
	return msg, ok
}

// Lookup returns the message for key in lang, falling back to English and
// then to key itself.
func (c *Catalog) Lookup(lang, key string) string {
	if msg, ok := c.Message(lang, key); ok {
		return msg
	}
	return key
}

// Format looks up key and formats it with args using the number and
// punctuation conventions of lang.
func (c *Catalog) Format(lang, key string, args ...any) string {
	msg := c.Lookup(lang, key)
	if len(args) == 0 {
		return msg
	}
	return message.NewPrinter(language.Make(lang)).Sprintf(msg, args...)
}

// Direction returns the writing direction of lang.
func (c *Catalog) Direction(lang string) Direction {
	if dir, ok := c.direction[lang]; ok {
		return dir
	}
	return LTR
}

// Missing lists keys defined in English but not in lang, sorted.
func (c *Catalog) Missing(lang string) []string {
	var missing []string
	for key := range c.messages[BaseLanguage] {
		if _, ok := c.messages[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
