package collections

var registry = []Schema{
	{
		Slug:           Bikes,
		Singular:       "Vélo",
		Plural:         "Vélos",
		UseAsTitle:     "name",
		DefaultColumns: []string{"name", "price", "kilometers", "humanSize", FieldUpdatedAt},
		DefaultSort:    "price",
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: Text, Required: true},
			{Name: "price", Label: "Prix", Description: "Prix en euros", Type: Number, Required: true, Min: bound(0)},
			{Name: "kilometers", Label: "Kilomètres parcourus", Description: "Nombre de kilomètres déjà parcourus", Type: Number, Required: true, Min: bound(0), Default: 0.0},
			{Name: "photo", Label: "Photo", Type: Upload, Required: true},
			{Name: "humanSize", Label: "Taille humain associée", Description: "Taille de la personne pour laquelle ce vélo est adapté", Type: Select, Required: true, Options: []Option{
				{Value: "xs", Label: "XS (< 1m55)"},
				{Value: "s", Label: "S (1m55 - 1m65)"},
				{Value: "m", Label: "M (1m65 - 1m75)"},
				{Value: "l", Label: "L (1m75 - 1m85)"},
				{Value: "xl", Label: "XL (> 1m85)"},
			}},
			{Name: "description", Label: "Description", Description: "Description optionnelle du vélo", Type: Textarea},
		},
	},
	{
		Slug:           Skis,
		Singular:       "Ski",
		Plural:         "Skis",
		UseAsTitle:     "name",
		DefaultColumns: []string{"name", "price", "skiType", "size", FieldUpdatedAt},
		DefaultSort:    "price",
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: Text, Required: true},
			{Name: "price", Label: "Prix", Description: "Prix en euros", Type: Number, Required: true, Min: bound(0)},
			{Name: "skiType", Label: "Type de ski", Type: Select, Required: true, Options: []Option{
				{Value: "alpine", Label: "Alpin"},
				{Value: "freestyle", Label: "Freestyle"},
				{Value: "freeride", Label: "Freeride"},
				{Value: "cross-country", Label: "Fond"},
				{Value: "touring", Label: "Randonnée"},
			}},
			{Name: "size", Label: "Taille (cm)", Description: "Longueur du ski en centimètres", Type: Number, Required: true, Min: bound(100), Max: bound(200)},
			{Name: "level", Label: "Niveau", Type: Select, Required: true, Options: []Option{
				{Value: "beginner", Label: "Débutant"},
				{Value: "intermediate", Label: "Intermédiaire"},
				{Value: "advanced", Label: "Avancé"},
				{Value: "expert", Label: "Expert"},
			}},
			{Name: "photo", Label: "Photo", Type: Upload, Required: true},
			{Name: "withBindings", Label: "Avec fixations", Description: "Les fixations sont-elles incluses ?", Type: Checkbox, Default: false},
			{Name: "description", Label: "Description", Description: "Description optionnelle du ski", Type: Textarea},
		},
	},
	{
		Slug:           Scooters,
		Singular:       "Trottinette",
		Plural:         "Trottinettes",
		UseAsTitle:     "name",
		DefaultColumns: []string{"name", "price", "scooterType", "isElectric", FieldUpdatedAt},
		DefaultSort:    "price",
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: Text, Required: true},
			{Name: "price", Label: "Prix", Description: "Prix en euros", Type: Number, Required: true, Min: bound(0)},
			{Name: "scooterType", Label: "Type de trottinette", Type: Select, Required: true, Options: []Option{
				{Value: "urban", Label: "Urbaine"},
				{Value: "freestyle", Label: "Freestyle"},
				{Value: "offroad", Label: "Tout-terrain"},
				{Value: "kids", Label: "Enfant"},
			}},
			{Name: "isElectric", Label: "Électrique", Description: "Cette trottinette est-elle électrique ?", Type: Checkbox, Default: false},
			{Name: "maxSpeed", Label: "Vitesse max (km/h)", Description: "Vitesse maximale en km/h (trottinettes électriques)", Type: Number, Min: bound(0), Condition: isTrue("isElectric")},
			{Name: "range", Label: "Autonomie (km)", Description: "Autonomie de la batterie en kilomètres (trottinettes électriques)", Type: Number, Min: bound(0), Condition: isTrue("isElectric")},
			{Name: "maxWeight", Label: "Poids max (kg)", Description: "Poids maximal supporté en kilogrammes", Type: Number, Min: bound(0)},
			{Name: "photo", Label: "Photo", Type: Upload, Required: true},
			{Name: "description", Label: "Description", Description: "Description optionnelle de la trottinette", Type: Textarea},
		},
	},
	{
		Slug:           Reviews,
		Singular:       "Avis",
		Plural:         "Avis",
		UseAsTitle:     "name",
		DefaultColumns: []string{"name", "rating", FieldCreatedAt},
		DefaultSort:    "-" + FieldCreatedAt,
		Fields: []Field{
			{Name: "name", Label: "Nom du client", Type: Text, Required: true},
			{Name: "image", Label: "Photo du client", Type: Upload, Required: true},
			{Name: "rating", Label: "Note", Description: "Note de 1 à 5 étoiles", Type: Number, Required: true, Min: bound(1), Max: bound(5), Default: 5.0},
			{Name: "text", Label: "Commentaire", Type: Textarea, Required: true},
		},
	},
	{
		Slug:           FAQ,
		Singular:       "Question",
		Plural:         "FAQ",
		UseAsTitle:     "question",
		DefaultColumns: []string{"question", "order", FieldCreatedAt},
		DefaultSort:    "order",
		Fields: []Field{
			{Name: "question", Label: "Question", Type: Text, Required: true},
			{Name: "answer", Label: "Réponse", Type: Textarea, Required: true},
			{Name: "order", Label: "Ordre d'affichage", Description: "Les plus petits nombres apparaissent en premier", Type: Number, Default: 0.0},
		},
	},
	{
		Slug:           Team,
		Singular:       "Membre de l'équipe",
		Plural:         "Équipe",
		UseAsTitle:     "name",
		DefaultColumns: []string{"name", "role", "order", FieldCreatedAt},
		DefaultSort:    "order",
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: Text, Required: true},
			{Name: "photo", Label: "Photo", Type: Upload, Required: true},
			{Name: "role", Label: "Rôle / Poste", Description: "Ex: Mécanicien, Fondateur, Responsable atelier...", Type: Text, Required: true},
			{Name: "description", Label: "Description", Description: "Courte biographie ou présentation du membre", Type: Textarea, Required: true},
			{Name: "order", Label: "Ordre d'affichage", Description: "Plus le nombre est petit, plus le membre apparaît en premier", Type: Number, Default: 0.0},
		},
	},
	{
		Slug:           OpeningHours,
		Singular:       "Horaire",
		Plural:         "Horaires",
		UseAsTitle:     "day",
		DefaultColumns: []string{"day", "openTime", "closeTime", "isClosed", "order"},
		DefaultSort:    "order",
		Fields: []Field{
			{Name: "day", Label: "Jour", Type: Select, Required: true, Options: []Option{
				{Value: "lundi", Label: "Lundi"},
				{Value: "mardi", Label: "Mardi"},
				{Value: "mercredi", Label: "Mercredi"},
				{Value: "jeudi", Label: "Jeudi"},
				{Value: "vendredi", Label: "Vendredi"},
				{Value: "samedi", Label: "Samedi"},
				{Value: "dimanche", Label: "Dimanche"},
			}},
			{Name: "isClosed", Label: "Fermé", Description: "Cochez si fermé ce jour-là", Type: Checkbox, Default: false},
			{Name: "openTime", Label: "Heure d'ouverture", Description: "Ex: 9h00", Type: Text, Condition: isFalse("isClosed")},
			{Name: "closeTime", Label: "Heure de fermeture", Description: "Ex: 18h00", Type: Text, Condition: isFalse("isClosed")},
			{Name: "order", Label: "Ordre d'affichage", Description: "0 = Lundi, 1 = Mardi, etc.", Type: Number, Default: 0.0},
		},
	},
	{
		Slug:           Prices,
		Singular:       "Tarif",
		Plural:         "Tarifs",
		UseAsTitle:     "label",
		DefaultColumns: []string{"label", "price", "time", "order"},
		DefaultSort:    "order",
		Fields: []Field{
			{Name: "label", Label: "Prestation", Description: "Nom de la prestation (ex: « Révision complète », « Réparation freins »)", Type: Text, Required: true},
			{Name: "price", Label: "Prix", Description: "Prix en euros", Type: Number, Required: true, Min: bound(0)},
			{Name: "time", Label: "Durée estimée", Description: "Durée estimée (ex: « 30 min », « 1h », « 2-3h »)", Type: Text, Required: true},
			{Name: "order", Label: "Ordre d'affichage", Description: "Les plus petits nombres apparaissent en premier", Type: Number, Default: 0.0},
		},
	},
	{
		Slug:           ContactInfo,
		Singular:       "Coordonnées",
		Plural:         "Coordonnées",
		UseAsTitle:     "address",
		DefaultColumns: []string{"address", "email", "phone"},
		Fields: []Field{
			{Name: "address", Label: "Adresse", Description: "Adresse complète de la boutique", Type: Text, Required: true},
			{Name: "city", Label: "Ville", Type: Text, Required: true},
			{Name: "postalCode", Label: "Code postal", Type: Text, Required: true},
			{Name: "country", Label: "Pays", Type: Text, Required: true, Default: "France"},
			{Name: "email", Label: "E-mail", Type: Email, Required: true},
			{Name: "phone", Label: "Téléphone", Description: "Ex: 04 76 00 00 00", Type: Text, Required: true},
			{Name: "socialLinks", Label: "Réseaux sociaux", Type: Group, Fields: []Field{
				{Name: "facebook", Label: "Facebook", Description: "URL de la page Facebook (optionnel)", Type: Text},
				{Name: "instagram", Label: "Instagram", Description: "URL du profil Instagram (optionnel)", Type: Text},
				{Name: "twitter", Label: "Twitter/X", Description: "URL du profil Twitter/X (optionnel)", Type: Text},
				{Name: "linkedin", Label: "LinkedIn", Description: "URL de la page LinkedIn (optionnel)", Type: Text},
			}},
		},
	},
	{
		Slug:           Pages,
		Singular:       "Page",
		Plural:         "Pages",
		UseAsTitle:     "title",
		DefaultColumns: []string{"title", "slug", FieldUpdatedAt},
		DefaultSort:    "slug",
		Fields: []Field{
			{Name: "slug", Label: "Identifiant", Description: "Ex: mentions-legales", Type: Text, Required: true, Unique: true},
			{Name: "title", Label: "Titre", Type: Text, Required: true},
			{Name: "body", Label: "Contenu", Type: RichText},
		},
	},
	{
		Slug:           Media,
		Singular:       "Média",
		Plural:         "Médias",
		UseAsTitle:     "filename",
		DefaultColumns: []string{"filename", "alt", "mimeType", "size", FieldCreatedAt},
		DefaultSort:    "-" + FieldCreatedAt,
		Upload:         true,
		Fields: []Field{
			{Name: "filename", Label: "Fichier", Type: Text, Required: true},
			{Name: "alt", Label: "Texte alternatif", Type: Text},
			{Name: "mimeType", Label: "Type MIME", Type: Text, Required: true},
			{Name: "size", Label: "Taille (octets)", Type: Number, Required: true, Min: bound(0)},
		},
	},
}
