package answergen

import (
	"fmt"
	"math/rand"
	"strings"
)

// localeData backs locale-aware synthetic values. The tables are small on
// purpose: the goal is plausible variety, not census coverage.
type localeData struct {
	firstNames []string
	lastNames  []string
	cities     []string
	countries  []string
	states     []string
	streets    []string
	companies  []string
	jobTitles  []string
	phoneCode  string
	emailHosts []string
}

var localeEN = localeData{
	firstNames: []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Susan", "Daniel", "Jessica", "Thomas", "Sarah", "Christopher", "Karen", "Matthew", "Emily"},
	lastNames:  []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin", "Lee", "Walker", "Hall", "Young", "King", "Wright"},
	cities:     []string{"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton", "Fairview", "Salem", "Madison", "Georgetown", "Arlington", "Ashland"},
	countries:  []string{"United States", "United Kingdom", "Canada", "Australia", "Germany", "France", "Japan", "Brazil", "India", "Netherlands"},
	states:     []string{"California", "Texas", "New York", "Florida", "Illinois", "Ohio", "Washington", "Colorado", "Oregon", "Virginia"},
	streets:    []string{"Oak Street", "Maple Avenue", "Cedar Lane", "Elm Drive", "Pine Road", "Park Boulevard", "Lake View Road", "Hillcrest Avenue"},
	companies:  []string{"Acme Corp", "Globex Solutions", "Initech", "Vertex Labs", "Northwind Trading", "Pinnacle Systems", "BlueSky Media", "Summit Analytics"},
	jobTitles:  []string{"Software Engineer", "Product Manager", "Data Analyst", "Marketing Specialist", "Teacher", "Accountant", "Graphic Designer", "Sales Executive", "Nurse", "Consultant"},
	phoneCode:  "+1",
	emailHosts: []string{"gmail.com", "yahoo.com", "outlook.com", "example.com"},
}

var localeENIN = localeData{
	firstNames: []string{"Aarav", "Priya", "Rahul", "Ananya", "Vikram", "Sneha", "Arjun", "Kavya", "Rohan", "Ishita", "Aditya", "Meera", "Karan", "Divya", "Sanjay", "Pooja"},
	lastNames:  []string{"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Reddy", "Iyer", "Nair", "Mehta", "Joshi", "Verma", "Rao", "Desai", "Chopra"},
	cities:     []string{"Mumbai", "Delhi", "Bengaluru", "Hyderabad", "Chennai", "Pune", "Kolkata", "Ahmedabad", "Jaipur", "Lucknow"},
	countries:  []string{"India"},
	states:     []string{"Maharashtra", "Karnataka", "Tamil Nadu", "Uttar Pradesh", "Gujarat", "Rajasthan", "West Bengal", "Kerala", "Telangana", "Punjab"},
	streets:    []string{"MG Road", "Brigade Road", "Linking Road", "Anna Salai", "Park Street", "FC Road", "Jubilee Hills Road"},
	companies:  []string{"Infotech Solutions", "Bharat Digital", "Nexa Technologies", "Shakti Enterprises", "Lotus Softworks", "Ganga Industries"},
	jobTitles:  []string{"Software Developer", "Business Analyst", "Operations Manager", "Chartered Accountant", "Civil Engineer", "Professor", "HR Executive", "Doctor"},
	phoneCode:  "+91",
	emailHosts: []string{"gmail.com", "yahoo.in", "rediffmail.com", "outlook.com"},
}

var localeDE = localeData{
	firstNames: []string{"Lukas", "Anna", "Finn", "Lena", "Jonas", "Emma", "Paul", "Mia", "Felix", "Laura", "Max", "Sophie", "Leon", "Marie"},
	lastNames:  []string{"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker", "Hoffmann", "Koch", "Richter", "Wolf"},
	cities:     []string{"Berlin", "Hamburg", "München", "Köln", "Frankfurt", "Stuttgart", "Düsseldorf", "Leipzig", "Dresden", "Hannover"},
	countries:  []string{"Deutschland", "Österreich", "Schweiz"},
	states:     []string{"Bayern", "Nordrhein-Westfalen", "Baden-Württemberg", "Hessen", "Sachsen", "Niedersachsen"},
	streets:    []string{"Hauptstraße", "Bahnhofstraße", "Gartenweg", "Lindenallee", "Schulstraße", "Bergstraße"},
	companies:  []string{"Müller GmbH", "TechWerk AG", "Nordstern Logistik", "Alpenblick Verlag", "Rheinland Systeme"},
	jobTitles:  []string{"Ingenieur", "Lehrerin", "Kaufmann", "Entwickler", "Beraterin", "Architekt", "Pfleger"},
	phoneCode:  "+49",
	emailHosts: []string{"gmail.com", "web.de", "gmx.de", "t-online.de"},
}

var localeFR = localeData{
	firstNames: []string{"Lucas", "Emma", "Hugo", "Léa", "Louis", "Chloé", "Gabriel", "Manon", "Arthur", "Camille", "Jules", "Sarah"},
	lastNames:  []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand", "Leroy", "Moreau", "Simon", "Laurent"},
	cities:     []string{"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes", "Strasbourg", "Bordeaux", "Lille", "Rennes"},
	countries:  []string{"France", "Belgique", "Suisse", "Canada"},
	states:     []string{"Île-de-France", "Auvergne-Rhône-Alpes", "Occitanie", "Nouvelle-Aquitaine", "Bretagne", "Normandie"},
	streets:    []string{"Rue de la République", "Avenue Victor Hugo", "Rue des Écoles", "Boulevard Saint-Michel", "Rue du Moulin"},
	companies:  []string{"Société Lumière", "Atelier Moderne", "Groupe Horizon", "Boulangerie Centrale", "TechParis SARL"},
	jobTitles:  []string{"Ingénieur", "Professeur", "Comptable", "Développeur", "Infirmière", "Consultant", "Architecte"},
	phoneCode:  "+33",
	emailHosts: []string{"gmail.com", "orange.fr", "free.fr", "outlook.fr"},
}

var localeES = localeData{
	firstNames: []string{"Hugo", "Lucía", "Mateo", "Sofía", "Martín", "María", "Leo", "Paula", "Daniel", "Valeria", "Pablo", "Carmen"},
	lastNames:  []string{"García", "Rodríguez", "González", "Fernández", "López", "Martínez", "Sánchez", "Pérez", "Gómez", "Díaz", "Torres", "Ruiz"},
	cities:     []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Zaragoza", "Málaga", "Bilbao", "Granada", "Murcia"},
	countries:  []string{"España", "México", "Argentina", "Colombia", "Chile", "Perú"},
	states:     []string{"Andalucía", "Cataluña", "Madrid", "Valencia", "Galicia", "País Vasco"},
	streets:    []string{"Calle Mayor", "Avenida de la Constitución", "Calle Real", "Paseo del Prado", "Calle Nueva"},
	companies:  []string{"Soluciones Ibéricas", "Grupo Meridiano", "Taller Central", "Comercial del Sur", "TecnoMadrid SL"},
	jobTitles:  []string{"Ingeniero", "Profesora", "Contador", "Desarrollador", "Enfermera", "Consultor", "Abogada"},
	phoneCode:  "+34",
	emailHosts: []string{"gmail.com", "hotmail.es", "yahoo.es", "outlook.es"},
}

// locales keys follow the original tool's locale identifiers; regional
// English variants share the base English tables.
var locales = map[string]localeData{
	"en":    localeEN,
	"en_US": localeEN,
	"en_GB": localeEN,
	"en_AU": localeEN,
	"en_IN": localeENIN,
	"de":    localeDE,
	"fr":    localeFR,
	"es":    localeES,
}

// dataFor resolves a locale identifier, falling back to the base language
// and then to English.
func dataFor(locale string) localeData {
	if d, ok := locales[locale]; ok {
		return d
	}
	if i := strings.IndexByte(locale, '_'); i > 0 {
		if d, ok := locales[locale[:i]]; ok {
			return d
		}
	}
	return localeEN
}

var loremWords = []string{
	"time", "people", "way", "water", "work", "life", "world", "place",
	"system", "group", "number", "point", "company", "problem", "service",
	"thing", "family", "process", "music", "question", "idea", "value",
	"experience", "result", "change", "morning", "reason", "moment",
	"community", "project", "practice", "learning", "quality", "support",
}

func pickFrom(rng *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rng.Intn(len(list))]
}

// words returns between min and max space-joined generic words.
func words(rng *rand.Rand, min, max int) string {
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pickFrom(rng, loremWords)
	}
	return strings.Join(parts, " ")
}

// sentence builds one plain sentence of 6-12 words.
func sentence(rng *rand.Rand) string {
	body := words(rng, 6, 12)
	return strings.ToUpper(body[:1]) + body[1:] + "."
}

// sentences builds min..max sentences joined by spaces.
func sentences(rng *rand.Rand, min, max int) string {
	n := min + rng.Intn(max-min+1)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = sentence(rng)
	}
	return strings.Join(parts, " ")
}

const alphaChars = "abcdefghijklmnopqrstuvwxyz"

func alpha(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphaChars[rng.Intn(len(alphaChars))]
	}
	return string(b)
}

func digits(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}

func phoneNumber(rng *rand.Rand, loc localeData) string {
	return fmt.Sprintf("%s %s %s", loc.phoneCode, digits(rng, 3), digits(rng, 7))
}

func zipCode(rng *rand.Rand) string {
	return digits(rng, 5)
}

// emailFor derives a locale-consistent address from a person's name.
func emailFor(rng *rand.Rand, loc localeData, first, last string) string {
	local := strings.ToLower(asciiFold(first) + "." + asciiFold(last))
	if rng.Intn(2) == 0 {
		local += digits(rng, 2)
	}
	return local + "@" + pickFrom(rng, loc.emailHosts)
}

func randomURL(rng *rand.Rand) string {
	return "https://www." + alpha(rng, 4+rng.Intn(6)) + ".com"
}

func randomUsername(rng *rand.Rand, loc localeData) string {
	return strings.ToLower(asciiFold(pickFrom(rng, loc.firstNames))) + digits(rng, 3)
}

// asciiFold strips the accented characters that appear in the locale tables
// so email local parts and usernames stay plain ASCII.
func asciiFold(s string) string {
	replacer := strings.NewReplacer(
		"ä", "a", "ö", "o", "ü", "u", "ß", "ss",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"á", "a", "à", "a", "â", "a", "í", "i", "î", "i", "ï", "i",
		"ó", "o", "ô", "o", "ú", "u", "û", "u", "ç", "c", "ñ", "n",
	)
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(replacer.Replace(string(r)))
	}
	return b.String()
}

// paragraphTopic keys a phrase bank to title keywords. Openers are
// interchangeable; lead bridges the opener into generated sentences.
type paragraphTopic struct {
	keywords []string
	openers  []string
	lead     string
	closer   string
}

var paragraphTopics = []paragraphTopic{
	{
		keywords: []string{"opinion", "think", "feel", "thoughts", "view"},
		openers:  []string{"In my opinion,", "I believe that", "From my perspective,", "I think that", "Based on my experience,", "I feel that"},
		lead:     "this is an important topic that deserves careful consideration.",
	},
	{
		keywords: []string{"experience", "describe", "tell us about"},
		openers:  []string{"In my experience,", "I have found that", "Over the years,", "From what I have seen,", "Based on my past experiences,"},
		closer:   "This has helped me understand the importance of continuous learning and adaptation.",
	},
	{
		keywords: []string{"suggest", "improve", "recommendation", "better", "change"},
		openers:  []string{"I would suggest", "One improvement could be", "I recommend", "A possible enhancement would be", "To make things better,"},
		lead:     "focusing on user experience and efficiency.",
		closer:   "This would lead to better outcomes overall.",
	},
	{
		keywords: []string{"why", "reason", "explain"},
		openers:  []string{"The main reason is", "This is because", "The primary factor is", "I believe this happens because", "The explanation for this is"},
	},
	{
		keywords: []string{"how"},
		openers:  []string{"The process involves", "This can be achieved by", "The approach I would take is", "The way I see it,", "One effective method is"},
	},
	{
		keywords: []string{"challenge", "problem", "difficulty", "obstacle", "issue"},
		openers:  []string{"One of the main challenges is", "A significant issue is", "The biggest difficulty I have faced is", "A common problem is", "One obstacle that stands out is"},
		lead:     "managing time effectively while maintaining quality.",
		closer:   "However, with proper planning, these challenges can be overcome.",
	},
	{
		keywords: []string{"goal", "aspir", "hope", "plan", "future", "aim"},
		openers:  []string{"My main goal is", "I aspire to", "In the future, I hope to", "My plan is to", "I aim to"},
		lead:     "achieve meaningful progress in this area.",
		closer:   "This will require dedication and consistent effort.",
	},
	{
		keywords: []string{"feedback", "comment", "review"},
		openers:  []string{"Overall, I found the experience to be", "My feedback would be", "I would like to comment that", "In terms of feedback,", "My overall impression is"},
		lead:     "positive and constructive.",
		closer:   "There is always room for improvement, but the foundation is solid.",
	},
	{
		keywords: []string{"interest", "motivat", "inspir", "passion"},
		openers:  []string{"I am particularly interested in", "What motivates me is", "I am inspired by", "My passion lies in", "What drives me is"},
		lead:     "the opportunity to make a positive impact.",
		closer:   "This keeps me engaged and focused on continuous growth.",
	},
	{
		keywords: []string{"additional", "anything else", "other"},
		openers:  []string{"Additionally, I would like to mention", "One more thing to note is", "I would also like to add", "Furthermore,", "In addition to the above,"},
		closer:   "Thank you for the opportunity to share my thoughts.",
	},
}

var genericTopic = paragraphTopic{
	openers: []string{"Regarding this topic,", "On this matter,", "With respect to this question,", "Considering this subject,", "In response to this,"},
	lead:    "I would like to share my perspective.",
	closer:  "I hope this provides a helpful insight.",
}

// paragraphFor picks the topic bank matching the question title and builds a
// multi-sentence response: opener, optional lead clause, 2-4 sentences,
// optional closer.
func paragraphFor(rng *rand.Rand, title string) string {
	lower := strings.ToLower(title)
	topic := genericTopic
	matched := false
	for _, t := range paragraphTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				topic = t
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	parts := []string{pickFrom(rng, topic.openers)}
	if topic.lead != "" {
		parts = append(parts, topic.lead)
	}
	parts = append(parts, sentences(rng, 2, 4))
	if topic.closer != "" {
		parts = append(parts, topic.closer)
	}
	return strings.Join(parts, " ")
}
