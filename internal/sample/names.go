package sample

var genders = []string{"female", "male", "nonbinary"}

var femaleNames = []string{
	"Ada", "Beatrix", "Clara", "Dalia", "Edith", "Freya", "Greta", "Hana",
	"Ines", "Joan", "Keiko", "Lucia", "Maren", "Nadia", "Olga", "Priya",
	"Rosa", "Sofia", "Thea", "Ursula", "Vera", "Wanda", "Yara", "Zora",
}

var maleNames = []string{
	"Anton", "Bruno", "Caspar", "Dmitri", "Emil", "Felix", "Gustav", "Hugo",
	"Ivan", "Jonas", "Kofi", "Lars", "Mateo", "Nils", "Omar", "Pavel",
	"Rafael", "Stefan", "Tobias", "Umar", "Viktor", "Wim", "Yusuf", "Zack",
}

var neutralNames = []string{
	"Ari", "Blake", "Casey", "Devon", "Eden", "Finley", "Jordan", "Kai",
	"Morgan", "Noa", "Quinn", "Remy", "Sage", "Taylor",
}

var surnames = []string{
	"Albers", "Bakker", "Castillo", "Dubois", "Eriksen", "Fischer", "Gallo",
	"Hoffman", "Ivanova", "Jansen", "Kowalski", "Lindqvist", "Moreau", "Novak",
	"Okafor", "Petrov", "Quintero", "Rossi", "Schmidt", "Tanaka", "Ueda",
	"Varga", "Weber", "Xu", "Yilmaz", "Zielinski",
}
